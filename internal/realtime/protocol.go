package realtime

import (
	"encoding/json"

	"github.com/xxxsen/moneya/internal/model"
)

// client -> relay
const (
	TypeStartApp      = "start_app"
	TypeUpdateContext = "update_context"
	TypeAudio         = "audio"
	TypeStop          = "stop"
)

// relay -> client
const (
	TypeSessionStarted = "session_started"
	TypeInterrupt      = "interrupt"
	TypeTranscript     = "transcript"
	TypeError          = "error"
	TypeSessionEnded   = "session_ended"
)

// upstream events
const (
	upstreamAudioDelta     = "response.audio.delta"
	upstreamSpeechStarted  = "input_audio_buffer.speech_started"
	upstreamAssistantDone  = "response.audio_transcript.done"
	upstreamUserTranscript = "conversation.item.input_audio_transcription.completed"
	upstreamError          = "error"
	upstreamSessionUpdate  = "session.update"
	upstreamAudioAppend    = "input_audio_buffer.append"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	ReasonStopped        = "stopped"
	ReasonUpstreamClosed = "upstream_closed"
	ReasonIdle           = "idle"
	ReasonShutdown       = "shutdown"
)

type ClientMessage struct {
	Type      string                  `json:"type"`
	UserName  string                  `json:"userName,omitempty"`
	Financial *model.FinancialContext `json:"financialContext,omitempty"`
	Budget    *model.BudgetInfo       `json:"budgetInfo,omitempty"`
	Design    *model.DesignData       `json:"designData,omitempty"`
	Analysis  *model.AnalysisContext  `json:"analysisContext,omitempty"`
	Data      string                  `json:"data,omitempty"`
	Audio     string                  `json:"audio,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    string `json:"data,omitempty"`
	Role    string `json:"role,omitempty"`
	Text    string `json:"text,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type upstreamEvent struct {
	Type       string `json:"type"`
	Delta      string `json:"delta"`
	Transcript string `json:"transcript"`
	Error      *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SessionParams is the fixed upstream session configuration.
type SessionParams struct {
	Modalities         []string
	Voice              string
	AudioFormat        string
	TranscriptionModel string
	VADThreshold       float64
	SilenceDurationMS  int
	PrefixPaddingMS    int
}

type sessionUpdate struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	Modalities              []string            `json:"modalities"`
	Instructions            string              `json:"instructions"`
	Voice                   string              `json:"voice"`
	InputAudioFormat        string              `json:"input_audio_format"`
	OutputAudioFormat       string              `json:"output_audio_format"`
	InputAudioTranscription transcriptionConfig `json:"input_audio_transcription"`
	TurnDetection           turnDetection       `json:"turn_detection"`
}

type transcriptionConfig struct {
	Model string `json:"model"`
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	SilenceDurationMS int     `json:"silence_duration_ms"`
	PrefixPaddingMS   int     `json:"prefix_padding_ms,omitempty"`
}

func (p SessionParams) encodeUpdate(instructions string) ([]byte, error) {
	return json.Marshal(sessionUpdate{
		Type: upstreamSessionUpdate,
		Session: sessionConfig{
			Modalities:              p.Modalities,
			Instructions:            instructions,
			Voice:                   p.Voice,
			InputAudioFormat:        p.AudioFormat,
			OutputAudioFormat:       p.AudioFormat,
			InputAudioTranscription: transcriptionConfig{Model: p.TranscriptionModel},
			TurnDetection: turnDetection{
				Type:              "server_vad",
				Threshold:         p.VADThreshold,
				SilenceDurationMS: p.SilenceDurationMS,
				PrefixPaddingMS:   p.PrefixPaddingMS,
			},
		},
	})
}

type audioAppend struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

func encodeAudioAppend(data string) ([]byte, error) {
	return json.Marshal(audioAppend{Type: upstreamAudioAppend, Audio: data})
}
