package configwatcher

import (
	"careeros_backend/internal/config"
	"careeros_backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func watcherConfigYAML(model string) string {
	return fmt.Sprintf(`server:
  port: "8080"
  mode: debug
ai:
  base_url: http://127.0.0.1:1
  model: %s
`, model)
}

func startWatcher(t *testing.T, path string) chan *config.Config {
	t.Helper()

	reloaded := make(chan *config.Config, 8)
	go WatchConfig(path, nil, func(newCfg interface{}) {
		if cfg, ok := newCfg.(*config.Config); ok {
			reloaded <- cfg
		}
	})

	// 给 watcher 一点时间装上文件监听
	time.Sleep(200 * time.Millisecond)
	return reloaded
}

// waitForModel 等待一次携带指定 AI 模型的重载。
// 一次文件写入可能产生多个事件进而多次重载，中间值直接丢弃。
func waitForModel(t *testing.T, reloaded chan *config.Config, model string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.AI.Model == model {
				return
			}
		case <-deadline:
			t.Fatalf("配置写入后未观察到 ai.model=%s 的重载回调", model)
		}
	}
}

// 首次写入就必须触发重载回调
func TestWatchConfigReloadsOnFirstWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherConfigYAML("deepseek-chat")), 0644))

	reloaded := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(watcherConfigYAML("deepseek-reasoner")), 0644))

	waitForModel(t, reloaded, "deepseek-reasoner")
}

// 重载之后 watcher 必须继续存活，后续写入照常触发
func TestWatchConfigSurvivesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherConfigYAML("model-a")), 0644))

	reloaded := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(watcherConfigYAML("model-b")), 0644))
	waitForModel(t, reloaded, "model-b")

	require.NoError(t, os.WriteFile(path, []byte(watcherConfigYAML("model-c")), 0644))
	waitForModel(t, reloaded, "model-c")
}
