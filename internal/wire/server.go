// Package wire implements the Wire Server (A4): the PostgreSQL v3
// simple-query protocol listener spec.md §6 describes — startup,
// cleartext-password authentication, and the simple-query loop, with a
// fixed "not implemented" response for the extended query protocol.
package wire

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgproto3"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
	"github.com/Pushkarm029/postgres-proxy-server/internal/audit"
	"github.com/Pushkarm029/postgres-proxy-server/internal/auth"
	"github.com/Pushkarm029/postgres-proxy-server/internal/dispatch"
)

// serverVersion is reported to clients in the startup ParameterStatus
// exchange; arbitrary but must look like a real Postgres version for
// client drivers that branch on it.
const serverVersion = "14.0"

// Server accepts client connections and runs the wire protocol handshake
// and simple-query loop over each one. One Server is shared by every
// connection; all per-connection state lives in the goroutine handling
// that connection (spec.md §5: "each accepted client connection is
// handled by an independent cooperative task").
type Server struct {
	addr       string
	authTable  *auth.Table
	dispatcher *dispatch.Dispatcher
	audit      *audit.Logger
	logger     *slog.Logger
}

func New(host string, port int, authTable *auth.Table, dispatcher *dispatch.Dispatcher, auditLogger *audit.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:       net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		authTable:  authTable,
		dispatcher: dispatcher,
		audit:      auditLogger,
		logger:     logger,
	}
}

// ListenAndServe runs the accept loop until ctx is cancelled or accepting
// fails. A process-level shutdown signal (spec.md §5) should cancel ctx;
// ListenAndServe then stops accepting and returns nil once the listener
// closes. In-flight connections are not forcibly terminated — each runs to
// its next suspension point and is cancelled there via ctx propagation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.logger.Info("wire server listening", slog.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	be := pgproto3.NewBackend(conn, conn)
	username, ok := s.handshake(conn, be)
	if !ok {
		return
	}

	sessionID := newSessionID()
	s.logger.Info("client authenticated", slog.String("session", sessionID), slog.String("user", username))

	for {
		msg, err := be.Receive()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("connection read error", slog.String("session", sessionID), slog.String("error", err.Error()))
			}
			return
		}

		switch m := msg.(type) {
		case *pgproto3.Query:
			s.handleQuery(ctx, be, sessionID, username, m.String)
		case *pgproto3.Terminate:
			return
		case *pgproto3.Parse, *pgproto3.Bind, *pgproto3.Describe, *pgproto3.Execute, *pgproto3.Sync, *pgproto3.Close:
			// Extended query protocol is out of scope (spec.md §6): always
			// answer with a fixed error, then return to idle.
			sendError(be, apperr.UnsupportedSqlConstruct("extended query protocol is not implemented"))
			be.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'})
			if err := be.Flush(); err != nil {
				return
			}
		default:
			// Unrecognized message kind: ignore and keep the connection
			// open rather than tearing it down over an unsupported frame.
		}
	}
}

// handshake performs the startup/SSL-negotiation/cleartext-auth exchange
// and returns the authenticated username, or ok=false if the connection
// should be closed (bad startup packet, unknown user, wrong password).
func (s *Server) handshake(conn net.Conn, be *pgproto3.Backend) (username string, ok bool) {
	startupMsg, err := be.ReceiveStartupMessage()
	if err != nil {
		s.logger.Debug("failed to receive startup message", slog.String("error", err.Error()))
		return "", false
	}

	switch startupMsg.(type) {
	case *pgproto3.SSLRequest:
		// No TLS support in this core; tell the client to proceed in the
		// clear and re-read the real startup packet.
		if _, err := conn.Write([]byte("N")); err != nil {
			return "", false
		}
		startupMsg, err = be.ReceiveStartupMessage()
		if err != nil {
			return "", false
		}
	case *pgproto3.CancelRequest:
		// Query cancellation via a second connection is not implemented;
		// simply close (spec.md §5 covers ctx-based cancellation on the
		// owning connection only).
		return "", false
	}

	startup, isStartup := startupMsg.(*pgproto3.StartupMessage)
	if !isStartup {
		return "", false
	}
	username = startup.Parameters["user"]

	expectedPassword, known := s.authTable.Password(username)
	if !known {
		sendError(be, fmt.Errorf("password authentication failed for user %q", username))
		be.Flush()
		return "", false
	}

	be.Send(&pgproto3.AuthenticationCleartextPassword{})
	if err := be.Flush(); err != nil {
		return "", false
	}
	be.SetAuthType(pgproto3.AuthTypeCleartextPassword)
	pwMsg, err := be.Receive()
	if err != nil {
		return "", false
	}
	pw, isPassword := pwMsg.(*pgproto3.PasswordMessage)
	if !isPassword || pw.Password != expectedPassword {
		sendError(be, fmt.Errorf("password authentication failed for user %q", username))
		be.Flush()
		return "", false
	}

	be.Send(&pgproto3.AuthenticationOk{})
	be.Send(&pgproto3.ParameterStatus{Name: "server_version", Value: serverVersion})
	be.Send(&pgproto3.ParameterStatus{Name: "client_encoding", Value: "UTF8"})
	be.Send(&pgproto3.BackendKeyData{ProcessID: 0, SecretKey: 0})
	be.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'})
	if err := be.Flush(); err != nil {
		return "", false
	}
	return username, true
}

// handleQuery runs one simple-query round trip: dispatch, stream the
// result (or error), audit, and return to idle. Per spec.md §5: "within a
// single client connection, queries are processed strictly sequentially";
// this method is only ever called from handleConn's single loop, so no
// additional synchronization is needed.
func (s *Server) handleQuery(ctx context.Context, be *pgproto3.Backend, sessionID, username, sqlText string) {
	start := time.Now()
	result, err := s.dispatcher.Handle(ctx, sqlText)
	elapsed := time.Since(start)

	if err != nil {
		sendError(be, err)
		s.audit.Log(audit.Event{
			SessionID:   sessionID,
			User:        username,
			OriginalSQL: dispatch.SplitForLog(sqlText),
			DurationMs:  elapsed.Milliseconds(),
			ErrorClass:  apperr.ClassOf(err),
			Error:       err.Error(),
		})
		be.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'})
		be.Flush()
		return
	}

	fields := make([]pgproto3.FieldDescription, len(result.Response.Fields))
	for i, f := range result.Response.Fields {
		fields[i] = pgproto3.FieldDescription{
			Name:         []byte(f.Name),
			DataTypeOID:  f.TypeOID,
			DataTypeSize: -1,
			TypeModifier: -1,
			Format:       0,
		}
	}
	be.Send(&pgproto3.RowDescription{Fields: fields})
	for _, row := range result.Response.Rows {
		be.Send(&pgproto3.DataRow{Values: row})
	}
	be.Send(&pgproto3.CommandComplete{CommandTag: []byte(fmt.Sprintf("SELECT %d", len(result.Response.Rows)))})

	s.audit.Log(audit.Event{
		SessionID:    sessionID,
		User:         username,
		OriginalSQL:  dispatch.SplitForLog(result.OriginalSQL),
		RewrittenSQL: dispatch.SplitForLog(result.RewrittenSQL),
		RowCount:     len(result.Response.Rows),
		DurationMs:   elapsed.Milliseconds(),
	})
	be.Send(&pgproto3.ReadyForQuery{TxStatus: 'I'})
	be.Flush()
}

// sendError translates any wire-taxonomy error into a Postgres
// ErrorResponse. Every error in this core shares SQLSTATE class ERROR
// (spec.md §7); only the message differs.
func sendError(be *pgproto3.Backend, err error) {
	be.Send(&pgproto3.ErrorResponse{
		Severity: "ERROR",
		Code:     apperr.SQLStateError,
		Message:  err.Error(),
	})
}

func newSessionID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
