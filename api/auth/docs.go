// Package auth registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g internal/auth/http/router.go -o api/auth --outputTypes go
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/sessiond"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "description": "Verifies credentials and opens a session. The refresh token is set as an HttpOnly cookie scoped to /auth/refresh.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "username and password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.CredentialsRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.SessionResponse"},
                        "headers": {
                            "Set-Cookie": {
                                "type": "string",
                                "description": "refreshToken=...; Path=/auth/refresh; HttpOnly; SameSite=Lax"
                            }
                        }
                    },
                    "400": {"description": "invalid_request, invalid_input", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "401": {"description": "invalid_credentials", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the user identified by the bearer access token.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.UserResponse"}},
                    "401": {"description": "invalid_token", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "description": "Rotates the refresh token from the cookie and returns a new access token. A token that was already rotated revokes its session.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SessionResponse"}},
                    "400": {"description": "no refresh token", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "401": {"description": "invalid_token, session_expired, refresh_token_reused", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/auth/refresh/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Destroys the session behind the refresh cookie and clears it. A valid bearer access token, if sent, is revoked until it expires. Always succeeds.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Creates an account. Username and password are trimmed; the username must be 3-50 characters of letters, digits and underscores, the password 6-128 characters.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register",
                "parameters": [
                    {
                        "description": "username and password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.CredentialsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.UserResponse"}},
                    "400": {"description": "invalid_request, invalid_input", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "409": {"description": "username_taken", "schema": {"$ref": "#/definitions/http.APIError"}},
                    "429": {"description": "rate_limit_exceeded", "schema": {"$ref": "#/definitions/http.APIError"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe endpoint returning basic service health status, uptime, and version information\nThis endpoint always returns 200 OK if the service is running",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe endpoint returning service health status and checks for critical dependencies\nIncludes uptime, version, and status of the database and, when shared, the deny-list",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/http.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.APIError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "http.CredentialsRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "correct horse"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "http.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "denylist": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/http.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "http.SessionResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "expiresAt": {"type": "integer", "example": 1700003600},
                "status": {"type": "string", "example": "ok"},
                "user": {"$ref": "#/definitions/http.UserInfo"}
            }
        },
        "http.StatusResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Logged out"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "http.UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "http.UserResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "user": {"$ref": "#/definitions/http.UserInfo"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Session Service API",
	Description:      "Login sessions for API clients: a short-lived HS256 access token plus a single-use, rotating refresh token carried in an HttpOnly cookie.\n\nPresenting a refresh token that was already rotated revokes the whole session.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
