// Package swagger serves the API documentation routes.
package swagger

import (
	"context"
	"net/http"
)

// Register attaches the API docs and the OpenAPI spec routes to mux.
// Routes:.
//
//	GET /api-docs     -> ReDoc HTML
//	GET /openapi.yaml -> OpenAPI spec
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	mux.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write([]byte(openAPI))
	})
}

// Minimal HTML that uses ReDoc and loads /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Butaca API – ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`

const openAPI = `openapi: 3.0.3
info:
  title: Butaca Recommendation API
  description: Hybrid movie recommendations blending genre similarity with catalog quality.
  version: 1.0.0
paths:
  /recommendations/{user_id}:
    get:
      summary: Get recommendations for a user
      parameters:
        - name: user_id
          in: path
          required: true
          schema:
            type: string
        - name: n
          in: query
          description: Number of rows to return.
          schema:
            type: integer
            minimum: 1
            default: 10
        - name: diversified_ratio
          in: query
          description: Share of rows drawn from outside the user's preferred genres.
          schema:
            type: number
            minimum: 0
            maximum: 1
            default: 0.5
        - name: min_rating
          in: query
          description: Tailored rows below this average rating are dropped.
          schema:
            type: number
            default: 7.0
      responses:
        '200':
          description: Recommendation rows, tailored block first.
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Recommendation'
        '400':
          description: Invalid parameters.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
        '404':
          description: Unknown user.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
  /users/{user_id}:
    get:
      summary: Get a user profile
      parameters:
        - name: user_id
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: The user profile.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/UserProfile'
        '404':
          description: Unknown user.
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
  /stats:
    get:
      summary: Service statistics
      responses:
        '200':
          description: Build and runtime statistics.
          content:
            application/json:
              schema:
                type: object
  /healthz:
    get:
      summary: Health check
      responses:
        '200':
          description: Service is healthy.
  /metrics:
    get:
      summary: Prometheus metrics
      responses:
        '200':
          description: Metrics in Prometheus exposition format.
components:
  schemas:
    Recommendation:
      type: object
      properties:
        user_id:
          type: string
        movie_id:
          type: string
        title:
          type: string
        genres:
          type: array
          items:
            type: string
        runtime_minutes:
          type: integer
        average_rating:
          type: number
        total_score:
          type: number
    UserProfile:
      type: object
      properties:
        user_id:
          type: string
        preferred_genres:
          type: array
          items:
            type: string
        average_watch_time:
          type: number
        favorite_movies:
          type: array
          items:
            type: string
    Error:
      type: object
      properties:
        code:
          type: string
        message:
          type: string
`
