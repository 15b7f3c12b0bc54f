package wire

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgproto3"

	"github.com/Pushkarm029/postgres-proxy-server/internal/audit"
	"github.com/Pushkarm029/postgres-proxy-server/internal/auth"
	"github.com/Pushkarm029/postgres-proxy-server/internal/backend"
	"github.com/Pushkarm029/postgres-proxy-server/internal/dialect"
	"github.com/Pushkarm029/postgres-proxy-server/internal/dispatch"
	"github.com/Pushkarm029/postgres-proxy-server/internal/semantic"
	"github.com/Pushkarm029/postgres-proxy-server/internal/transform"
)

type fakeBackend struct {
	response backend.Response
}

func (f *fakeBackend) Execute(_ context.Context, _ string) ([]backend.Response, error) {
	return []backend.Response{f.response}, nil
}
func (f *fakeBackend) DriverName() string { return "fake" }
func (f *fakeBackend) Close()             {}

func newTestServer(t *testing.T, be backend.Backend) *Server {
	t.Helper()
	store, err := semantic.LoadLocalStore(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err != nil {
		t.Fatalf("LoadLocalStore: %v", err)
	}
	tr := transform.New(store, dialect.For("postgres"))
	d := dispatch.New(tr, be, time.Second)
	authTable, err := auth.Parse("admin,s3cret")
	if err != nil {
		t.Fatalf("auth.Parse: %v", err)
	}
	return New("", 0, authTable, d, audit.NewLogger(false, nil), nil)
}

// runConn starts handleConn over one end of a net.Pipe and hands the test
// a pgproto3.Frontend wired to the other end, so the test can speak the
// real client side of the protocol.
func runConn(t *testing.T, s *Server) *pgproto3.Frontend {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { clientConn.Close() })

	go s.handleConn(context.Background(), serverConn)

	return pgproto3.NewFrontend(clientConn, clientConn)
}

func startup(t *testing.T, fe *pgproto3.Frontend, user, password string) {
	t.Helper()
	fe.Send(&pgproto3.StartupMessage{
		ProtocolVersion: pgproto3.ProtocolVersionNumber,
		Parameters:      map[string]string{"user": user},
	})
	if err := fe.Flush(); err != nil {
		t.Fatalf("flush startup: %v", err)
	}

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive auth request: %v", err)
	}
	if _, ok := msg.(*pgproto3.AuthenticationCleartextPassword); !ok {
		t.Fatalf("expected AuthenticationCleartextPassword, got %T", msg)
	}

	fe.Send(&pgproto3.PasswordMessage{Password: password})
	if err := fe.Flush(); err != nil {
		t.Fatalf("flush password: %v", err)
	}
}

func expectReadyForQuery(t *testing.T, fe *pgproto3.Frontend) {
	t.Helper()
	for {
		msg, err := fe.Receive()
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		if _, ok := msg.(*pgproto3.ReadyForQuery); ok {
			return
		}
	}
}

func TestHandshake_ValidCredentials(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})
	fe := runConn(t, s)

	startup(t, fe, "admin", "s3cret")

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, ok := msg.(*pgproto3.AuthenticationOk); !ok {
		t.Fatalf("expected AuthenticationOk, got %T", msg)
	}
	expectReadyForQuery(t, fe)
}

func TestHandshake_WrongPassword(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})
	fe := runConn(t, s)

	startup(t, fe, "admin", "wrong")

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, ok := msg.(*pgproto3.ErrorResponse); !ok {
		t.Fatalf("expected ErrorResponse, got %T", msg)
	}
}

func TestHandshake_UnknownUser(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})
	fe := runConn(t, s)

	fe.Send(&pgproto3.StartupMessage{
		ProtocolVersion: pgproto3.ProtocolVersionNumber,
		Parameters:      map[string]string{"user": "nobody"},
	})
	if err := fe.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, ok := msg.(*pgproto3.ErrorResponse); !ok {
		t.Fatalf("expected ErrorResponse, got %T", msg)
	}
}

func TestSimpleQuery_ReturnsRowsThenReadyForQuery(t *testing.T) {
	be := &fakeBackend{response: backend.Response{
		Fields: []backend.FieldDescriptor{{Name: "headcount", TypeOID: 20}},
		Rows:   []backend.Row{{[]byte("5")}},
	}}
	s := newTestServer(t, be)
	fe := runConn(t, s)

	startup(t, fe, "admin", "s3cret")
	if _, err := fe.Receive(); err != nil { // AuthenticationOk
		t.Fatalf("receive: %v", err)
	}
	expectReadyForQuery(t, fe)

	fe.Send(&pgproto3.Query{String: "SELECT MEASURE(headcount) FROM dm_employees"})
	if err := fe.Flush(); err != nil {
		t.Fatalf("flush query: %v", err)
	}

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive RowDescription: %v", err)
	}
	rd, ok := msg.(*pgproto3.RowDescription)
	if !ok {
		t.Fatalf("expected RowDescription, got %T", msg)
	}
	if len(rd.Fields) != 1 || string(rd.Fields[0].Name) != "headcount" {
		t.Errorf("unexpected fields: %+v", rd.Fields)
	}

	msg, err = fe.Receive()
	if err != nil {
		t.Fatalf("receive DataRow: %v", err)
	}
	dr, ok := msg.(*pgproto3.DataRow)
	if !ok || string(dr.Values[0]) != "5" {
		t.Fatalf("expected DataRow [5], got %T %v", msg, msg)
	}

	msg, err = fe.Receive()
	if err != nil {
		t.Fatalf("receive CommandComplete: %v", err)
	}
	if _, ok := msg.(*pgproto3.CommandComplete); !ok {
		t.Fatalf("expected CommandComplete, got %T", msg)
	}

	expectReadyForQuery(t, fe)
}

func TestSimpleQuery_ParseErrorReturnsErrorResponseThenReady(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})
	fe := runConn(t, s)

	startup(t, fe, "admin", "s3cret")
	if _, err := fe.Receive(); err != nil {
		t.Fatalf("receive: %v", err)
	}
	expectReadyForQuery(t, fe)

	fe.Send(&pgproto3.Query{String: "SELEC garbage"})
	if err := fe.Flush(); err != nil {
		t.Fatalf("flush query: %v", err)
	}

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, ok := msg.(*pgproto3.ErrorResponse); !ok {
		t.Fatalf("expected ErrorResponse, got %T", msg)
	}
	expectReadyForQuery(t, fe)
}

func TestExtendedQueryProtocol_RespondsNotImplemented(t *testing.T) {
	s := newTestServer(t, &fakeBackend{})
	fe := runConn(t, s)

	startup(t, fe, "admin", "s3cret")
	if _, err := fe.Receive(); err != nil {
		t.Fatalf("receive: %v", err)
	}
	expectReadyForQuery(t, fe)

	fe.Send(&pgproto3.Parse{Name: "", Query: "SELECT 1"})
	if err := fe.Flush(); err != nil {
		t.Fatalf("flush parse: %v", err)
	}

	msg, err := fe.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, ok := msg.(*pgproto3.ErrorResponse); !ok {
		t.Fatalf("expected ErrorResponse, got %T", msg)
	}
	expectReadyForQuery(t, fe)
}
