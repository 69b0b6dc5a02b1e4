package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/lahirunirmalx/cOrange/internal/config"
	"github.com/lahirunirmalx/cOrange/internal/punch"
)

type PunchAPIHandler interface {
	PunchIn(ctx context.Context) (time.Time, error)
	PunchOut(ctx context.Context) (punch.Cycle, error)
	Status() PunchStatus
	Import(ctx context.Context, path string) []string
}

func Routes(punchHandler PunchAPIHandler, uploadDir string) []config.Route {
	return []config.Route{
		{
			Path:    "/punch/in",
			Method:  http.MethodPost,
			Handler: PunchInHandler(punchHandler),
		},
		{
			Path:    "/punch/out",
			Method:  http.MethodPost,
			Handler: PunchOutHandler(punchHandler),
		},
		{
			Path:    "/punch/status",
			Method:  http.MethodGet,
			Handler: StatusHandler(punchHandler),
		},
		{
			Path:    "/punch/import",
			Method:  http.MethodPost,
			Handler: ImportHandler(punchHandler, uploadDir),
		},
	}
}
