package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/fg-stock-dashboard/api/internal/infrastructure/configs"
	"github.com/go-chi/cors"
)

const wildcard = "*"

// allMethods is what a "*" entry in cors.allow_methods expands to.
var allMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

func (app *Application) corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(corsOptions(app.config.Cors))
}

// corsOptions translates the configured policy. Browsers refuse a literal "*"
// origin on credentialed responses, so a wildcard origin list combined with
// credentials reflects the request Origin instead.
func corsOptions(cfg configs.CorsConfig) cors.Options {
	opts := cors.Options{
		AllowedMethods:   expandMethods(cfg.AllowMethods),
		AllowedHeaders:   cfg.AllowHeaders,
		ExposedHeaders:   cfg.ExposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	if slices.Contains(cfg.AllowOrigins, wildcard) && cfg.AllowCredentials {
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return true
		}
	} else {
		opts.AllowedOrigins = cfg.AllowOrigins
	}

	return opts
}

func expandMethods(methods []string) []string {
	if slices.Contains(methods, wildcard) {
		return slices.Clone(allMethods)
	}

	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, strings.ToUpper(strings.TrimSpace(m)))
	}

	return out
}
