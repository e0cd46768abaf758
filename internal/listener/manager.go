package listener

import (
	"context"
	"io"
	"log/slog"
)

// Sessioner runs one interactive session over a connection.
type Sessioner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	sessions Sessioner
}

func NewConnectionManager(sessions Sessioner) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.sessions.RunSession(ctx, newCRLFReadWriter(conn)); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}
