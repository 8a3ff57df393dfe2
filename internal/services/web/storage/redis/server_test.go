package redis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// memoryServer speaks enough RESP2 for the store: PING, GET, SET with EX/PX
// and TTL. Anything else gets an error reply.
type memoryServer struct {
	listener net.Listener

	mu      sync.Mutex
	now     time.Time
	values  map[string][]byte
	expires map[string]time.Time
}

func newMemoryServer(t *testing.T) *memoryServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &memoryServer{
		listener: listener,
		now:      time.Unix(1_700_000_000, 0),
		values:   map[string][]byte{},
		expires:  map[string]time.Time{},
	}
	go srv.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return srv
}

// client returns a RESP2 client without the connection handshake extras.
func (s *memoryServer) client(t *testing.T) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:            s.listener.Addr().String(),
		Protocol:        2,
		DisableIdentity: true,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func (s *memoryServer) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *memoryServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *memoryServer) handle(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)
	for {
		args, err := readCommand(reader)
		if err != nil {
			return
		}
		s.reply(writer, args)
		if err := writer.Flush(); err != nil {
			return
		}
	}
}

func (s *memoryServer) reply(w *bufio.Writer, args []string) {
	if len(args) == 0 {
		fmt.Fprint(w, "-ERR empty command\r\n")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch strings.ToUpper(args[0]) {
	case "PING":
		fmt.Fprint(w, "+PONG\r\n")
	case "GET":
		value, ok := s.lookup(args[1])
		if !ok {
			fmt.Fprint(w, "$-1\r\n")
			return
		}
		fmt.Fprintf(w, "$%d\r\n%s\r\n", len(value), value)
	case "SET":
		if len(args) < 3 {
			fmt.Fprint(w, "-ERR wrong number of arguments for 'set'\r\n")
			return
		}
		s.values[args[1]] = []byte(args[2])
		delete(s.expires, args[1])
		if len(args) == 5 {
			n, err := strconv.Atoi(args[4])
			if err != nil {
				fmt.Fprint(w, "-ERR value is not an integer\r\n")
				return
			}
			unit := time.Second
			if strings.EqualFold(args[3], "px") {
				unit = time.Millisecond
			}
			s.expires[args[1]] = s.now.Add(time.Duration(n) * unit)
		}
		fmt.Fprint(w, "+OK\r\n")
	case "TTL":
		if _, ok := s.lookup(args[1]); !ok {
			fmt.Fprint(w, ":-2\r\n")
			return
		}
		expiry, ok := s.expires[args[1]]
		if !ok {
			fmt.Fprint(w, ":-1\r\n")
			return
		}
		fmt.Fprintf(w, ":%d\r\n", int64(expiry.Sub(s.now)/time.Second))
	default:
		fmt.Fprintf(w, "-ERR unknown command '%s'\r\n", args[0])
	}
}

func (s *memoryServer) lookup(key string) ([]byte, bool) {
	if expiry, ok := s.expires[key]; ok && !s.now.Before(expiry) {
		delete(s.values, key)
		delete(s.expires, key)
	}
	value, ok := s.values[key]
	return value, ok
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return strings.Fields(line), nil
	}
	count, err := strconv.Atoi(line[1:])
	if err != nil {
		return nil, fmt.Errorf("array length: %w", err)
	}
	args := make([]string, 0, count)
	for range count {
		header, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(header, "$") {
			return nil, errors.New("expected bulk string")
		}
		size, err := strconv.Atoi(header[1:])
		if err != nil {
			return nil, fmt.Errorf("bulk length: %w", err)
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
