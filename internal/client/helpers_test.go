package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/client"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/constants"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// countingStore wraps a MemoryStore, counts reads and can be told to fail.
type countingStore struct {
	*storage.MemoryStore

	mu      sync.Mutex
	gets    int
	getErr  error
	delErr  error
	blockCh chan struct{}

	// readDone is closed once Get has read its value; Get then waits for
	// releaseCh before returning it.
	readDone  chan struct{}
	releaseCh chan struct{}
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: storage.NewMemoryStore(testLogger())}
}

func (s *countingStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	s.gets++
	err := s.getErr
	block := s.blockCh
	readDone, release := s.readDone, s.releaseCh
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return "", err
	}

	value, err := s.MemoryStore.Get(ctx, key)
	if readDone != nil {
		close(readDone)
		<-release
	}
	return value, err
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	err := s.delErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, key)
}

func (s *countingStore) Gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

var errStorageDown = errors.New("storage down")

// newSession builds a session talking to handler, with store seeded with token when non-empty.
func newSession(t *testing.T, handler http.HandlerFunc, store storage.Store) (*client.Session, *client.BaseClient) {
	t.Helper()

	if handler == nil {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected request")
			w.WriteHeader(http.StatusTeapot)
		}
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := client.NewBaseClient(server.URL, 5*time.Second, testLogger(), nil)
	session := client.NewSession(store, base, constants.UserAgentApple, testLogger(), nil)
	return session, base
}
