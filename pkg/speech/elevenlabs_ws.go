package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const elevenLabsWSBaseURL = "wss://api.elevenlabs.io/v1/text-to-speech"

// SynthesizeStream converts text to a chunked MP3 stream over the
// ElevenLabs stream-input WebSocket, for lower latency to first sound.
// The returned channel is closed when synthesis completes or the
// context is cancelled.
func (e *ElevenLabs) SynthesizeStream(ctx context.Context, text string, voice Voice) (*ClipStream, error) {
	url := fmt.Sprintf("%s/%s/stream-input?model_id=%s&output_format=mp3_44100_128",
		elevenLabsWSBaseURL, voice.ID, e.config.ModelID)

	headers := http.Header{}
	headers.Set("xi-api-key", e.config.APIKey)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		if resp != nil {
			return nil, &APIError{
				Provider:   providerElevenLabs,
				StatusCode: resp.StatusCode,
				Message:    "websocket dial failed",
			}
		}
		return nil, WrapError(providerElevenLabs, err)
	}

	// BOS, text, EOS. The API flushes audio after the empty-text EOS.
	messages := []map[string]any{
		{
			"text": " ",
			"voice_settings": map[string]any{
				"stability":        0.5,
				"similarity_boost": 0.75,
			},
		},
		{"text": text + " ", "try_trigger_generation": true},
		{"text": ""},
	}
	for _, msg := range messages {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return nil, WrapError(providerElevenLabs, fmt.Errorf("send: %w", err))
		}
	}

	ch := make(chan []byte, 16)
	go e.readStream(ctx, conn, ch)

	return &ClipStream{Format: "mp3", C: ch}, nil
}

// readStream pumps audio chunks from the socket into the channel.
func (e *ElevenLabs) readStream(ctx context.Context, conn *websocket.Conn, ch chan<- []byte) {
	defer close(ch)
	defer conn.Close()

	type streamMessage struct {
		Audio   string `json:"audio"`
		IsFinal bool   `json:"isFinal"`
		Error   string `json:"error"`
	}

	for {
		if ctx.Err() != nil {
			return
		}

		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Error != "" {
			e.logger.Warn("stream error", "error", msg.Error)
			return
		}
		if msg.Audio != "" {
			data, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				e.logger.Warn("bad audio chunk", "error", err)
				return
			}
			select {
			case ch <- data:
			case <-ctx.Done():
				return
			}
		}
		if msg.IsFinal {
			return
		}
	}
}

// Verify ElevenLabs implements StreamingEngine at compile time.
var _ StreamingEngine = (*ElevenLabs)(nil)
