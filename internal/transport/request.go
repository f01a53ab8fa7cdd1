package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure. Non-2xx
// responses become an *errors.APIError carrying the backend's message.
// A nil target discards the body.
func DecodeResponse(method, endpoint string, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseSize))
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(method, endpoint, resp.StatusCode, errorMessage(resp, body))
	}

	if target == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.NewDecodeError(method+" "+endpoint, "", "invalid JSON response", err)
	}
	return nil
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error
// body, falling back to the raw text or the status text.
func errorMessage(resp *http.Response, body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
