package emit

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceltrack/parceltrack"
	"github.com/parceltrack/parceltrack/internal/appcontext"
	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

type fakeClient struct {
	parceltrack.Client

	live bool
	sent []string
}

func (f *fakeClient) Session() (types.Session, bool) {
	return types.Session{User: types.User{ID: "a1", Role: types.RoleAgent}, Token: "tok"}, true
}

func (f *fakeClient) WaitConnected(context.Context) error {
	if !f.live {
		return errors.ErrNotConnected
	}
	return nil
}

func (f *fakeClient) EmitStatusUpdate(id string, s types.ParcelStatus) error {
	f.sent = append(f.sent, "status "+id+" "+string(s))
	return nil
}

func (f *fakeClient) EmitAgentStatus(online bool) error {
	if online {
		f.sent = append(f.sent, "online")
	} else {
		f.sent = append(f.sent, "offline")
	}
	return nil
}

func (f *fakeClient) EmitCustomerInquiry(id, msg string) error {
	f.sent = append(f.sent, "inquiry "+id+" "+msg)
	return nil
}

func execute(fake *fakeClient, args ...string) (string, error) {
	app := &appcontext.Mock{
		ClientFunc: func(context.Context) (parceltrack.Client, error) { return fake, nil },
		Format:     "table",
		Colorless:  true,
	}
	cmd := NewCommand(app)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEmit(t *testing.T) {
	fake := &fakeClient{live: true}

	out, err := execute(fake, "status", "p1", "delivered")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent status update")

	_, err = execute(fake, "agent-status", "offline")
	require.NoError(t, err)
	_, err = execute(fake, "inquiry", "p1", "where", "is", "it?")
	require.NoError(t, err)

	assert.Equal(t, []string{"status p1 delivered", "offline", "inquiry p1 where is it?"}, fake.sent)
}

func TestEmitRejectsBadArguments(t *testing.T) {
	fake := &fakeClient{live: true}

	for _, args := range [][]string{
		{"status", "p1", "lost"},
		{"agent-status", "maybe"},
		{"location", "p1", "north", "0"},
	} {
		_, err := execute(fake, args...)
		assert.Error(t, err, args)
	}
	assert.Empty(t, fake.sent)
}

func TestEmitRequiresConnection(t *testing.T) {
	fake := &fakeClient{}

	_, err := execute(fake, "agent-status", "online")
	assert.True(t, errors.IsNotConnected(err))
	assert.Empty(t, fake.sent)
}
