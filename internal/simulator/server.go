package simulator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/junsooki/pixoo64/internal/assembler"
	"github.com/junsooki/pixoo64/internal/protocol"
)

var (
	okResponse  = protocol.Response{ErrorCode: 0}
	errResponse = protocol.Response{ErrorCode: 1}
)

// Server accepts device requests over HTTP, WebSocket and MQTT and feeds
// frame messages to an assembler. Every other command is logged and acknowledged.
type Server struct {
	addr      string
	assembler *assembler.Assembler
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

func NewServer(addr string, asm *assembler.Assembler, logger *zap.Logger) *Server {
	return &Server{
		addr:      addr,
		assembler: asm,
		logger:    logger.Named("simulator"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	eng := gin.New()
	eng.Use(gin.Recovery(), s.logRequests)

	eng.POST("/post", s.post)
	eng.GET("/ws", s.serveWebSocket)

	return eng
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("simulator listening", zap.String("addr", "http://"+s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dispatch handles one JSON request body.
func (s *Server) Dispatch(data []byte) (protocol.Response, error) {
	req, err := protocol.Decode(data)
	if err != nil {
		return errResponse, err
	}
	s.logger.Info("received command", zap.String("command", req.CommandName()))

	m, ok := req.(protocol.SendGif)
	if !ok {
		return okResponse, nil
	}
	p, err := s.assembler.Handle(m)
	if err != nil {
		return errResponse, err
	}
	s.logger.Debug("frame accepted",
		zap.Int("picID", m.PicID),
		zap.String("progress", fmt.Sprintf("%d/%d", m.PicOffset+1, m.PicNum)))
	if p != nil {
		s.logger.Info("animation update complete", zap.Int("picID", p.PicID()))
	}
	return okResponse, nil
}

func (s *Server) post(ctx *gin.Context) {
	data, err := ctx.GetRawData()
	if err != nil {
		s.logger.Error("read body", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, errResponse)
		return
	}

	resp, err := s.Dispatch(data)
	if err != nil {
		s.logger.Error("handle request", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) serveWebSocket(ctx *gin.Context) {
	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Info("websocket client connected", zap.String("remote", remote))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Info("websocket client disconnected", zap.String("remote", remote), zap.Error(err))
			return
		}
		resp, err := s.Dispatch(data)
		if err != nil {
			s.logger.Error("handle websocket request", zap.String("remote", remote), zap.Error(err))
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write", zap.String("remote", remote), zap.Error(err))
			return
		}
	}
}

// Subscribe routes requests published on topic to Dispatch. MQTT has no
// reply path, so failures are only logged.
func (s *Server) Subscribe(client mqtt.Client, topic string) error {
	token := client.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMQTT(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	s.logger.Info("subscribed", zap.String("topic", topic))
	return nil
}

func (s *Server) handleMQTT(topic string, payload []byte) {
	if _, err := s.Dispatch(payload); err != nil {
		s.logger.Error("handle mqtt request", zap.String("topic", topic), zap.Error(err))
	}
}

func (s *Server) logRequests(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	s.logger.Debug("http request",
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.Int("status", ctx.Writer.Status()),
		zap.Duration("latency", time.Since(start)))
}
