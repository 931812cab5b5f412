package bridge

import (
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubworks/sitepilot/internal/model"
)

func TestFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	env, err := model.NewEnvelope(model.TargetBackground, model.CommandDetectSite, DetectSitePayload{
		URL: "https://tracker.example.com/browse/AP-1",
	})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- WriteFrame(client, env) }()

	var got model.Envelope
	require.NoError(t, ReadFrame(server, &got))
	require.NoError(t, <-errCh)

	assert.Equal(t, env.ID, got.ID)
	assert.Equal(t, model.CommandDetectSite, got.CommandType)
	assert.NoError(t, got.Validate())

	var payload DetectSitePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "https://tracker.example.com/browse/AP-1", payload.URL)
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		_, _ = client.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	}()

	var v any
	err := ReadFrame(server, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame too large")
}

func TestResponseHelpers(t *testing.T) {
	ok := successResponse("env_1", DetectSiteResult{Site: "a"})
	assert.True(t, ok.OK)
	assert.Nil(t, ok.Error)
	assert.JSONEq(t, `{"site":"a"}`, string(ok.Result))

	fail := errorResponse("env_1", model.ErrCodeInputInvalid, "bad payload")
	assert.False(t, fail.OK)
	require.NotNil(t, fail.Error)
	assert.Equal(t, model.ErrCodeInputInvalid, fail.Error.Code)
}
