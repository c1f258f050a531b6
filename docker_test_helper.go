package ygggo_dbal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"
	gge "github.com/yggai/ygggo_env"
)

// DockerTestHelper runs a throwaway MySQL container and exposes it as a
// ready-made Config: the test account as the scoped backend and root as
// the privileged one, so a Session exercises the same drop-and-create path
// it would against a shared CI database.
type DockerTestHelper struct {
	container testcontainers.Container
	config    Config
}

// DockerTestConfig holds settings for the MySQL test container.
type DockerTestConfig struct {
	MySQLVersion string        // image tag (default "8.0")
	Database     string        // database name (default "testdb")
	Username     string        // scoped account (default "testuser")
	Password     string        // scoped password (default "testpass")
	RootPassword string        // privileged password (default "rootpass")
	StartTimeout time.Duration // container start timeout (default 60s)
}

// DefaultDockerTestConfig returns the default container settings.
func DefaultDockerTestConfig() DockerTestConfig {
	return DockerTestConfig{
		MySQLVersion: "8.0",
		Database:     "testdb",
		Username:     "testuser",
		Password:     "testpass",
		RootPassword: "rootpass",
		StartTimeout: 60 * time.Second,
	}
}

// NewDockerTestHelper starts a MySQL container with default settings.
// Values from a .env file are loaded first so local overrides apply.
func NewDockerTestHelper(ctx context.Context) (*DockerTestHelper, error) {
	gge.LoadEnv()
	return NewDockerTestHelperWithConfig(ctx, DefaultDockerTestConfig())
}

// NewDockerTestHelperWithConfig starts a MySQL container with custom
// settings.
func NewDockerTestHelperWithConfig(ctx context.Context, cfg DockerTestConfig) (*DockerTestHelper, error) {
	container, err := mysql.Run(ctx,
		"mysql:"+cfg.MySQLVersion,
		mysql.WithDatabase(cfg.Database),
		mysql.WithUsername(cfg.Username),
		mysql.WithPassword(cfg.Password),
		testcontainers.WithEnv(map[string]string{
			"MYSQL_ROOT_PASSWORD": cfg.RootPassword,
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithOccurrence(1).
				WithStartupTimeout(cfg.StartTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start MySQL container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	portInt, err := strconv.Atoi(port.Port())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to parse container port: %w", err)
	}

	config := Config{
		Test: BackendSettings{
			Driver:   DriverMySQL,
			User:     cfg.Username,
			Password: cfg.Password,
			Host:     host,
			Port:     portInt,
			DBName:   cfg.Database,
		},
		Privileged: BackendSettings{
			Driver:   DriverMySQL,
			User:     "root",
			Password: cfg.RootPassword,
			Host:     host,
			Port:     portInt,
		},
	}

	return &DockerTestHelper{container: container, config: config}, nil
}

// Config returns the container-backed configuration.
func (h *DockerTestHelper) Config() Config { return h.config }

// Session returns a fresh session bound to the container.
func (h *DockerTestHelper) Session() *Session { return NewSession(h.config) }

// Container returns the underlying testcontainer.
func (h *DockerTestHelper) Container() testcontainers.Container { return h.container }

// Close terminates the container.
func (h *DockerTestHelper) Close() error {
	if h == nil || h.container == nil {
		return nil
	}
	return h.container.Terminate(context.Background())
}
