package streaming

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/Djoe-Denne/vocal-agent/internal/config"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
	"github.com/Djoe-Denne/vocal-agent/internal/metrics"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline"
)

// maxInboundMessageBytes bounds the size of one inbound websocket message.
const maxInboundMessageBytes = 64 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP connections to websocket and drives one Session
// per connection. It is the streaming-mode sibling of the one-shot
// TranscribeUseCase's HTTP handler.
type Handler struct {
	engine              *pipeline.Engine
	defaultSampleRateHz uint32
	limiterRate         rate.Limit
	limiterBurst        int
}

// NewHandler builds a Handler over engine, rate-limiting each connection's
// inbound message rate per cfg.Streaming.
func NewHandler(engine *pipeline.Engine, defaultSampleRateHz uint32, cfg config.StreamingConfig) *Handler {
	limiterRate := rate.Limit(cfg.MaxInboundMessagesPerSecond)
	if limiterRate <= 0 {
		limiterRate = rate.Inf
	}
	burst := cfg.MaxInboundBurst
	if burst <= 0 {
		burst = 1
	}
	return &Handler{
		engine:              engine,
		defaultSampleRateHz: defaultSampleRateHz,
		limiterRate:         limiterRate,
		limiterBurst:        burst,
	}
}

// ServeHTTP upgrades the request and runs the duplex message loop until the
// session closes or the connection drops.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("streaming upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxInboundMessageBytes)

	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	session := NewSession(h.engine, h.defaultSampleRateHz)
	limiter := rate.NewLimiter(h.limiterRate, h.limiterBurst)

	for {
		if err := limiter.Wait(r.Context()); err != nil {
			return
		}

		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var (
			responses  [][]byte
			closeAfter bool
		)
		switch messageType {
		case websocket.TextMessage:
			responses, closeAfter = session.HandleText(r.Context(), data)
		case websocket.BinaryMessage:
			responses, closeAfter = session.HandleBinary()
		default:
			continue
		}

		for _, msg := range responses {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}

		if closeAfter {
			return
		}
	}
}
