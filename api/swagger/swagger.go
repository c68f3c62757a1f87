package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MCAT Plan API",
        "description": "Day-by-day MCAT study plan generation",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Plan", "description": "Study plan generation and export"},
        {"name": "Catalog", "description": "Topic catalog management"},
        {"name": "Health", "description": "Probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Catalog unavailable"}
                }
            }
        },
        "/full-plan": {
            "get": {
                "tags": ["Plan"],
                "summary": "Generate the day-by-day study plan",
                "parameters": [
                    {"name": "start", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"},
                    {"name": "test", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"},
                    {"name": "priorities", "in": "query", "type": "string", "required": true, "description": "Comma-separated priority categories, e.g. 1A,3B"},
                    {"name": "availability", "in": "query", "type": "string", "required": true, "description": "Comma-separated weekdays, e.g. Mon,Wed,Fri"},
                    {"name": "fl_weekday", "in": "query", "type": "string", "description": "Weekday for full-length sittings"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/stats": {
            "get": {
                "tags": ["Plan"],
                "summary": "Summarise a plan without the day list",
                "parameters": [
                    {"name": "start", "in": "query", "type": "string", "required": true},
                    {"name": "test", "in": "query", "type": "string", "required": true},
                    {"name": "priorities", "in": "query", "type": "string", "required": true},
                    {"name": "availability", "in": "query", "type": "string", "required": true},
                    {"name": "fl_weekday", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/full-plan/export": {
            "get": {
                "tags": ["Plan"],
                "summary": "Export the plan as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "required": true, "enum": ["csv", "pdf"]},
                    {"name": "start", "in": "query", "type": "string", "required": true},
                    {"name": "test", "in": "query", "type": "string", "required": true},
                    {"name": "priorities", "in": "query", "type": "string", "required": true},
                    {"name": "availability", "in": "query", "type": "string", "required": true},
                    {"name": "fl_weekday", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/catalog/reload": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Reload the topic catalog and flush derived caches",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Catalog load failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "stats": {"type": "object"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "meta": {"type": "object"},
                "generatedAt": {"type": "string"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
