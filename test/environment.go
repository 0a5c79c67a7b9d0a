//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/fittrack/internal"
	"github.com/2beens/fittrack/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	log "github.com/sirupsen/logrus"
)

const (
	serverPort  = 19000
	metricsPort = "19001"
	serverHost  = "localhost"
	dbName      = "fittrack"
	dbPassword  = "postgres"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type environment struct {
	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newEnvironment(ctx context.Context) (*environment, error) {
	var err error
	env := &environment{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	env.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}
	env.dockerPool.MaxWait = 2 * time.Minute

	if err = env.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisPort, err := env.redisSetup()
	if err != nil {
		env.cleanup()
		return nil, fmt.Errorf("setup redis: %w", err)
	}

	pgPort, err := env.postgresSetup()
	if err != nil {
		env.cleanup()
		return nil, fmt.Errorf("setup postgres: %w", err)
	}

	cfg := getTestConfig(redisPort, pgPort)
	env.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config: cfg,
			Secrets: &config.Secrets{
				DBPassword: dbPassword,
				MCPEnabled: true,
			},
			VersionInfo: "test-version-info",
		},
	)
	if err != nil {
		env.cleanup()
		return nil, fmt.Errorf("new server: %w", err)
	}

	env.server.Serve(cfg.Host, cfg.Port)

	if err := env.waitForServer(); err != nil {
		env.cleanup()
		return nil, err
	}

	return env, nil
}

func (env *environment) cleanup() {
	if env.server != nil {
		env.server.GracefulShutdown()
	}
	if env.DB != nil {
		env.DB.Close()
	}
	for _, teardown := range env.teardown {
		teardown()
	}
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:                         "test",
		Host:                                serverHost,
		Port:                                serverPort,
		LogLevel:                            "debug",
		LogToStdout:                         true,
		RedisHost:                           "localhost",
		RedisPort:                           redisPort,
		PostgresHost:                        "localhost",
		PostgresPort:                        postgresPort,
		PostgresDBName:                      dbName,
		PostgresUser:                        "postgres",
		PostgresSSL:                         "disable",
		RunMigrations:                       true,
		PrometheusMetricsHost:               serverHost,
		PrometheusMetricsPort:               metricsPort,
		LoginRateLimitAllowedPerMin:         100,
		SessionCreateRateLimitAllowedPerMin: 100,
	}
}

func (env *environment) redisSetup() (string, error) {
	redisResource, err := env.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	env.teardown = append(env.teardown, func() {
		if err := redisResource.Close(); err != nil {
			log.Errorf("close redis resource: %s", err)
		}
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (env *environment) postgresSetup() (string, error) {
	pgResource, err := env.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + dbPassword,
			"POSTGRES_DB=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %w", err)
	}

	env.teardown = append(env.teardown, func() {
		if err := pgResource.Close(); err != nil {
			log.Errorf("close postgres resource: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:%s@localhost:%s/%s?sslmode=disable", dbPassword, pgPort, dbName)

	// the container accepts connections a little after it reports running
	if err := env.dockerPool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return err
		}
		env.DB = db
		return nil
	}); err != nil {
		return "", fmt.Errorf("connect to postgres: %w", err)
	}

	return pgPort, nil
}

func (env *environment) waitForServer() error {
	return env.dockerPool.Retry(func() error {
		resp, err := http.Get(serverEndpoint + "/version")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("version endpoint: status %d", resp.StatusCode)
		}
		return nil
	})
}

// apiClient issues requests against the running server on behalf of one user.
type apiClient struct {
	httpClient *http.Client
	token      string
}

func newAPIClient() *apiClient {
	return &apiClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-FIT-TOKEN", c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
