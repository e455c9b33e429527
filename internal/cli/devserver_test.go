package cli

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thepivo/pivoadmin/internal/adminapi"
	"github.com/thepivo/pivoadmin/internal/common/httpclient"
	"github.com/thepivo/pivoadmin/internal/config"
	"github.com/thepivo/pivoadmin/internal/models"
	"github.com/thepivo/pivoadmin/internal/session"
)

type serverURL string

func (s serverURL) GetServerURL() string { return string(s) }

func TestStartDevServerSeedsAdmin(t *testing.T) {
	srv, err := startDevServer(devServerOptions{
		DevServer: config.DevServer{AdminEmail: "root@pivo.test", AdminPassword: "chosen-pass"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Administrator", srv.admin.Name)
	assert.Equal(t, models.RoleAdmin, srv.admin.Role)
	assert.Equal(t, "chosen-pass", srv.password)

	c := adminapi.NewFromHTTPClient(httpclient.NewClient(
		serverURL("http://dev.test/api"),
		session.NewMemoryStore(),
		httpclient.ClientOptions{Transport: httpclient.NewInProcessTransport(srv.api)},
	))
	res, err := c.Auth.Login(context.Background(), "root@pivo.test", "chosen-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestStartDevServerGeneratesPassword(t *testing.T) {
	srv, err := startDevServer(devServerOptions{
		DevServer: config.DevServer{AdminEmail: "root@pivo.test"},
	})
	require.NoError(t, err)
	assert.Len(t, srv.password, generatedPasswordLength)

	_, err = startDevServer(devServerOptions{})
	assert.Error(t, err, "an admin without email cannot be seeded")
}

func TestServeUntilDone(t *testing.T) {
	srv, err := startDevServer(devServerOptions{
		DevServer: config.DevServer{AdminEmail: "root@pivo.test", AdminPassword: "chosen-pass"},
	})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, ln, srv.api) }()

	c := adminapi.NewFromHTTPClient(httpclient.NewClient(
		serverURL("http://"+ln.Addr().String()+"/api"),
		session.NewMemoryStore(),
		httpclient.ClientOptions{Timeout: 5 * time.Second},
	))
	_, err = c.Auth.Login(context.Background(), "root@pivo.test", "chosen-pass")
	require.NoError(t, err)
	user, err := c.Auth.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "root@pivo.test", user.Email)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
