package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.hyphenators == nil || env.splitters == nil {
		t.Error("Environment caches not initialized")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}
	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond || uptime > time.Second {
		t.Errorf("Uptime() = %v", uptime)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}
