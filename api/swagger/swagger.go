package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Technician SLA API",
        "description": "Registration SLA aggregation service for the technician certification workflow",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Aggregated roll-ups"},
        {"name": "SLA", "description": "Stage duration analytics"},
        {"name": "Technicians", "description": "Per-record list views"},
        {"name": "Exports", "description": "File downloads"}
    ],
    "paths": {
        "/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Top-level SLA roll-up",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/areas": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-area roll-up with status breakdowns",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/areas/steps": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-area workflow stage drill-down",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/provinces": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Top ten provinces by registrations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/provinces/map": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "All provinces for the map view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/monthly": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-training-month roll-up",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainers": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Top ten trainers by trainee count",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/depots": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Top twenty depots by registrations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/status-detail": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Raw result value counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/filters": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Distinct filter option values",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sla/steps": {
            "get": {
                "tags": ["SLA"],
                "summary": "Per-stage SLA statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sla/distribution": {
            "get": {
                "tags": ["SLA"],
                "summary": "End-to-end duration distribution buckets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sla/bottleneck": {
            "get": {
                "tags": ["SLA"],
                "summary": "Stages ranked by average duration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/technicians": {
            "get": {
                "tags": ["Technicians"],
                "summary": "List technician records",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "area", "in": "query", "type": "string"},
                    {"name": "province", "in": "query", "type": "string"},
                    {"name": "depot_code", "in": "query", "type": "string"},
                    {"name": "depot", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/technicians/pending": {
            "get": {
                "tags": ["Technicians"],
                "summary": "In-process technicians, longest waiting first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/technicians.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the technician list as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Exports disabled"}
                }
            }
        },
        "/exports/technicians.xlsx": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the technician list as XLSX",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Exports disabled"}
                }
            }
        },
        "/exports/summary.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the summary report as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Exports disabled"}
                }
            }
        }
    },
    "definitions": {
        "SummaryResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "completed": {"type": "integer"},
                "onprocess": {"type": "integer"},
                "closed": {"type": "integer"},
                "cancelled": {"type": "integer"},
                "completed_rate": {"type": "number"},
                "onprocess_rate": {"type": "number"},
                "closed_rate": {"type": "number"},
                "theory_pass": {"type": "integer"},
                "theory_fail": {"type": "integer"},
                "theory_rate": {"type": "number"},
                "ojt_pass": {"type": "integer"},
                "ojt_fail": {"type": "integer"},
                "ojt_rate": {"type": "number"},
                "avg_sla_total": {"type": "number"},
                "sla_by_step": {"type": "object"},
                "status_counts": {"type": "object"}
            }
        },
        "TechnicianView": {
            "type": "object",
            "properties": {
                "no": {"type": "string"},
                "name": {"type": "string"},
                "name_en": {"type": "string"},
                "depot": {"type": "string"},
                "depot_code": {"type": "string"},
                "province": {"type": "string"},
                "area": {"type": "string"},
                "status": {"type": "string"},
                "result": {"type": "string"},
                "sla_total": {"type": "integer"},
                "sla_steps": {"type": "object"},
                "current_stage": {"type": "string"},
                "days_in_stage": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
