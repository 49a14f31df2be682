// Package docs is generated by swaggo/swag from the handler annotations.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{escape .Title}}",
        "contact": {},
        "version": "{{escape .Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/account": {
            "get": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Account management view",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/account/login": {
            "get": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Login view",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/account/logout": {
            "post": {
                "tags": ["account"],
                "summary": "Logout",
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/account/password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Change password",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/account/register": {
            "get": {
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Registration view",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/account/update": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Update account profile",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/inv/classification/{classification_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Browse vehicles by classification",
                "parameters": [{"type": "string", "name": "classification_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inv/classifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "List classifications",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Add a classification",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/inv/vehicle/{vehicle_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Vehicle detail",
                "parameters": [{"type": "string", "name": "vehicle_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/inv/vehicles": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Add a vehicle",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/inv/vehicles/{vehicle_id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Update a vehicle",
                "parameters": [{"type": "string", "name": "vehicle_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Search vehicles",
                "parameters": [{"type": "string", "name": "q", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CSE Motors Dealership API",
	Description:      "Dealership inventory and account API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
