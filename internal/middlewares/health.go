package middlewares

import (
	"net/http"

	"github.com/lahirunirmalx/cOrange/internal/util"
)

// RuntimeHealthCheck reports that the process is serving requests.
func RuntimeHealthCheck() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WithBodyAndStatus("All OK", http.StatusOK, w)
	}
}
