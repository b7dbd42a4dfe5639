package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>impactorbit-backend — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the public and admin surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "impactorbit-backend", "version": "v0.1.0" },
  "paths": {
    "/api/categories": {
      "get": { "summary": "List categories", "responses": { "200": { "description": "category list" } } },
      "post": { "summary": "Create a category (admin)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"}}}}}}, "responses": { "201": { "description": "id returned" }, "400": { "description": "empty name" } } }
    },
    "/api/categories/{id}": {
      "get": { "summary": "Get a category", "responses": { "200": { "description": "category" }, "404": { "description": "unknown id" } } },
      "patch": { "summary": "Patch a category (admin)", "responses": { "204": { "description": "updated" }, "404": { "description": "unknown id" } } },
      "delete": { "summary": "Delete a category (admin)", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/blogs": {
      "get": { "summary": "List blogs, newest first; ?category= filters", "responses": { "200": { "description": "blog list" } } },
      "post": { "summary": "Create a blog (admin)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"categoryId":{"type":"string"},"blog":{"type":"object"}}}}}}, "responses": { "201": { "description": "id returned" } } }
    },
    "/api/blogs/{id}": {
      "get": { "summary": "Get a blog", "responses": { "200": { "description": "blog" }, "404": { "description": "unknown id" } } },
      "patch": { "summary": "Patch a blog, optionally moving category (admin)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"fields":{"type":"object"},"categoryId":{"type":"string"}}}}}}, "responses": { "204": { "description": "updated" }, "404": { "description": "unknown id" } } },
      "delete": { "summary": "Delete a blog (admin); ?category= removes the mirror too", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/blogs/{id}/comments": {
      "get": { "summary": "List approved comments for a blog", "responses": { "200": { "description": "comment list" } } },
      "post": { "summary": "Post a visitor comment", "responses": { "201": { "description": "id returned" } } }
    },
    "/api/messages": {
      "post": { "summary": "Submit a contact-form message", "responses": { "201": { "description": "id returned" } } }
    },
    "/auth/login": {
      "post": { "summary": "Login (password or auth_code mode)", "responses": { "200": { "description": "tokens returned" }, "401": { "description": "authentication failed" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "responses": { "200": { "description": "logged out" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
