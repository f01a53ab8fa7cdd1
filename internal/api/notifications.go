package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Channel selects how an outbound message is delivered.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelBoth  Channel = "both"
)

// EmailRequest sends an email.
type EmailRequest struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	ParcelID string `json:"parcelId,omitempty"`
}

// SMSRequest sends a text message.
type SMSRequest struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	ParcelID string `json:"parcelId,omitempty"`
}

// SendRequest sends over one or both channels.
type SendRequest struct {
	Type      Channel `json:"type"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject,omitempty"`
	Message   string  `json:"message"`
	ParcelID  string  `json:"parcelId,omitempty"`
}

// Preferences are the channels a user accepts notifications on.
type Preferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// SendResult is the backend acknowledgment of a send call. Its shape varies
// by channel, so it is kept raw.
type SendResult = json.RawMessage

// SendEmail sends an email notification.
func (c *Client) SendEmail(ctx context.Context, req EmailRequest) (SendResult, error) {
	var out SendResult
	err := c.http.Post(ctx, "/notifications/email", req, &out)
	return out, err
}

// SendSMS sends an SMS notification.
func (c *Client) SendSMS(ctx context.Context, req SMSRequest) (SendResult, error) {
	var out SendResult
	err := c.http.Post(ctx, "/notifications/sms", req, &out)
	return out, err
}

// Send sends over the channels named in req.
func (c *Client) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	var out SendResult
	err := c.http.Post(ctx, "/notifications/send", req, &out)
	return out, err
}

// Preferences returns the current user's notification preferences.
func (c *Client) Preferences(ctx context.Context) (Preferences, error) {
	var out Preferences
	err := c.http.Get(ctx, "/notifications/preferences", nil, &out)
	return out, err
}

// UpdatePreferences replaces the current user's notification preferences.
func (c *Client) UpdatePreferences(ctx context.Context, prefs Preferences) (Preferences, error) {
	var out Preferences
	err := c.http.Put(ctx, "/notifications/preferences", prefs, &out)
	return out, err
}

// History returns the current user's sent email/SMS history.
func (c *Client) History(ctx context.Context) ([]types.Notification, error) {
	var raw json.RawMessage
	if err := c.http.Get(ctx, "/notifications/history", nil, &raw); err != nil {
		return nil, err
	}
	return decodeNotifications("/notifications/history", raw)
}

// NotifyParcelUpdate asks the backend to send the automatic notifications
// for a status change.
func (c *Client) NotifyParcelUpdate(ctx context.Context, parcelID string, status types.ParcelStatus) error {
	body := map[string]string{"parcelId": parcelID, "status": string(status)}
	return c.http.Post(ctx, "/notifications/parcel-update", body, nil)
}

// MyNotifications fetches the current user's notification history, most
// recent first as returned by the backend.
func (c *Client) MyNotifications(ctx context.Context, unreadOnly bool) ([]types.Notification, error) {
	q := url.Values{"unreadOnly": {strconv.FormatBool(unreadOnly)}}
	var raw json.RawMessage
	if err := c.http.Get(ctx, "/notifications/my-notifications", q, &raw); err != nil {
		return nil, err
	}
	return decodeNotifications("/notifications/my-notifications", raw)
}

// MarkNotificationRead acknowledges one notification.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.http.Patch(ctx, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// MarkAllNotificationsRead acknowledges every notification.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.http.Patch(ctx, "/notifications/read-all", nil, nil)
}

// decodeNotifications accepts a bare array or an object wrapping one under
// "notifications" or "data".
func decodeNotifications(endpoint string, raw json.RawMessage) ([]types.Notification, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var list []types.Notification
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, errors.NewDecodeError(endpoint, "", "invalid notification list", err)
		}
		return list, nil
	}

	var envelope struct {
		Notifications []types.Notification `json:"notifications"`
		Data          []types.Notification `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.NewDecodeError(endpoint, "", "invalid notification list", err)
	}
	if envelope.Notifications != nil {
		return envelope.Notifications, nil
	}
	return envelope.Data, nil
}
