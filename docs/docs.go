// Package docs registers the OpenAPI document served at /docs.
// Regenerate with: swag init -g cmd/worker/main.go
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
        "/": {
            "get": {
                "description": "Get basic worker information and capabilities",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Worker information",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.WorkerInfoResponse"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Check if the worker is healthy. The generator field is uninitialized, ready or disabled; disabled means fallback-only mode.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.HealthResponse"}
                    }
                }
            }
        },
        "/recommendations": {
            "post": {
                "description": "Classify one alert and return the recommended unit, action, urgency and reasoning. NONE and LOW alerts return null unit, action and urgency. With include_alert=true the alert is returned with the recommendation attached as emergency_response.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Generate emergency response recommendation",
                "parameters": [
                    {
                        "description": "Alert and optional response context",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.AlertEnvelope"}
                    },
                    {
                        "type": "boolean",
                        "description": "Return the alert with the recommendation attached",
                        "name": "include_alert",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/models.Recommendation"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}
                    }
                }
            }
        },
        "/system/debug": {
            "get": {
                "description": "Get debug information for troubleshooting",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get debug info",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/system/stats": {
            "get": {
                "description": "Get process statistics for the worker",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get system stats",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "unknown risk level \"SEVERE\""}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "generator": {"type": "string", "example": "ready"},
                "messaging": {"type": "boolean", "example": true},
                "status": {"type": "string", "example": "healthy"},
                "worker_id": {"type": "string", "example": "responder-1"}
            }
        },
        "handlers.WorkerInfoResponse": {
            "type": "object",
            "properties": {
                "capabilities": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string", "example": "running"},
                "version": {"type": "string", "example": "1.0.0"},
                "worker_id": {"type": "string", "example": "responder-1"}
            }
        },
        "models.Alert": {
            "type": "object",
            "properties": {
                "acknowledged_at": {"type": "string"},
                "confidence": {"type": "number"},
                "created_at": {"type": "string"},
                "emergency_response": {"$ref": "#/definitions/models.Recommendation"},
                "event_time_seconds": {"type": "number"},
                "explanation": {"type": "string"},
                "file_name": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "primary_cause": {"type": "string"},
                "risk_level": {"type": "string", "enum": ["NONE", "LOW", "MEDIUM", "HIGH"]},
                "risk_score": {"type": "number"},
                "supporting_factors": {"type": "array", "items": {"type": "string"}},
                "user_email": {"type": "string"}
            }
        },
        "models.AlertEnvelope": {
            "type": "object",
            "properties": {
                "alert": {"$ref": "#/definitions/models.Alert"},
                "area_affected": {"type": "string"},
                "duration_seconds": {"type": "number", "minimum": 0},
                "escalation_trend": {"type": "string", "enum": ["increasing", "stable", "decreasing"]}
            }
        },
        "models.Recommendation": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "reasoning": {"type": "array", "items": {"type": "string"}},
                "risk_level": {"type": "string"},
                "time": {"type": "string", "example": "18:42:07"},
                "unit": {"type": "string"},
                "urgency": {"type": "string", "enum": ["Immediate", "High", "Medium"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Kepler Responder API",
	Description:      "Emergency response recommendations for crowd-safety alerts",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
