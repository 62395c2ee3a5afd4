// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/transactions": {
            "get": {
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "kind", "in": "query"}
                ],
                "responses": {"200": {"description": "Paginated history, newest first"}}
            },
            "post": {
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "X-User-ID", "in": "header"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateTransactionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Written", "schema": {"$ref": "#/definitions/handlers.EntryResponse"}},
                    "202": {"description": "Held as a possible duplicate", "schema": {"$ref": "#/definitions/handlers.EntryResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "tags": ["transactions"],
                "summary": "Get a transaction",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Transaction not found"}}
            },
            "delete": {
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Deleted"}, "404": {"description": "Transaction not found"}}
            }
        },
        "/summary": {
            "get": {
                "tags": ["transactions"],
                "summary": "Household totals",
                "parameters": [{"type": "string", "name": "X-Household-ID", "in": "header", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SummaryResponse"}}}
            }
        },
        "/stream": {
            "get": {
                "tags": ["transactions"],
                "summary": "Live history",
                "produces": ["text/event-stream"],
                "parameters": [{"type": "string", "name": "X-Household-ID", "in": "header", "required": true}],
                "responses": {"200": {"description": "snapshot events"}}
            }
        },
        "/descriptions": {
            "get": {
                "tags": ["descriptions"],
                "summary": "List descriptions",
                "parameters": [{"type": "string", "name": "X-Household-ID", "in": "header", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["descriptions"],
                "summary": "Add a description",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AddDescriptionRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Already exists"}}
            }
        },
        "/scans": {
            "post": {
                "tags": ["entries"],
                "summary": "Scan a receipt",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "file", "name": "document", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Written"},
                    "202": {"description": "Held as a possible duplicate"},
                    "409": {"description": "Another upload is in progress"},
                    "502": {"description": "Recognition failed"}
                }
            }
        },
        "/pending/{id}": {
            "get": {
                "tags": ["entries"],
                "summary": "Get a held entry",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Pending entry not found"}}
            },
            "delete": {
                "tags": ["entries"],
                "summary": "Cancel a held entry",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Discarded"}}
            }
        },
        "/pending/{id}/confirm": {
            "post": {
                "tags": ["entries"],
                "summary": "Confirm a held entry",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"201": {"description": "Written"}}
            }
        },
        "/imports": {
            "post": {
                "tags": ["imports"],
                "summary": "Import a statement",
                "consumes": ["multipart/form-data", "application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "file", "name": "document", "in": "formData"}
                ],
                "responses": {"201": {"description": "Review opened"}}
            }
        },
        "/imports/{id}": {
            "get": {
                "tags": ["imports"],
                "summary": "Get an import review",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Review not found"}}
            },
            "delete": {
                "tags": ["imports"],
                "summary": "Discard an import",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Discarded"}}
            }
        },
        "/imports/{id}/toggle/{index}": {
            "post": {
                "tags": ["imports"],
                "summary": "Toggle a statement line",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "index", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Index out of range"}}
            }
        },
        "/imports/{id}/commit": {
            "post": {
                "tags": ["imports"],
                "summary": "Commit an import",
                "parameters": [
                    {"type": "string", "name": "X-Household-ID", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"201": {"description": "Written"}, "500": {"description": "Nothing was written"}}
            }
        }
    },
    "definitions": {
        "handlers.AddDescriptionRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}}
        },
        "handlers.CreateTransactionRequest": {
            "type": "object",
            "required": ["description", "kind"],
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "string", "example": "1200.00"},
                "date": {"type": "string", "example": "2024-03-02"},
                "kind": {"type": "string", "example": "expense"},
                "is_recurring": {"type": "boolean"},
                "installments": {"type": "integer"}
            }
        },
        "handlers.EntryResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "example": "committed"},
                "pending_id": {"type": "string"},
                "transactions": {"type": "array", "items": {"type": "object"}}
            }
        },
        "handlers.SummaryResponse": {
            "type": "object",
            "properties": {
                "total_income": {"type": "string", "example": "5000.00"},
                "total_expenses": {"type": "string", "example": "1235.50"},
                "balance": {"type": "string", "example": "3764.50"},
                "count": {"type": "integer"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "GastoCerto API",
	Description:      "Household ledger with duplicate-aware entry, installment expansion and statement import.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
