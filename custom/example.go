package custom

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"inventory.GO/api"
	"inventory.GO/cmd"
	"inventory.GO/cron"
	gqlregistry "inventory.GO/graphql/registry"
)

var startedAt = time.Now()

// Demonstrates every extension point: a GraphQL extension resolver, a CLI
// command, a cron job and a public HTTP route. Drop-in packages register
// themselves the same way from their own init().
func init() {
	gqlregistry.Register("uptime", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
		}, nil
	})

	cmd.Register(&cobra.Command{
		Use:   "custom:version",
		Short: "Print runtime build info",
		Run: func(c *cobra.Command, args []string) {
			fmt.Printf("go %s, %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	})

	cron.Register("heartbeat", "@every 10m", func(args ...string) {
		fmt.Println("heartbeat: up for", time.Since(startedAt).Round(time.Second))
	})

	api.RegisterGET("/custom/uptime", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]int64{
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	})
}
