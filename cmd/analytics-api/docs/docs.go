// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Check if API and its database are alive",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/plugins/analytics/reports": {
            "get": {
                "description": "Run the named reports and return their charts. Without a name, list the report configurations.",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Fetch report charts",
                "parameters": [
                    {"type": "string", "description": "Tenant id", "name": "X-Tenant-Id", "in": "header"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Report specification", "name": "name", "in": "query"},
                    {"type": "string", "description": "First day (YYYY-MM-DD)", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "Last day (YYYY-MM-DD)", "name": "endDate", "in": "query"},
                    {"type": "string", "description": "Named period (today, this_week, last_30_days, ...)", "name": "period", "in": "query"},
                    {"type": "string", "description": "AVERAGE_WEEKLY, AVERAGE_MONTHLY, SUM_WEEKLY or SUM_MONTHLY", "name": "smooth", "in": "query"},
                    {"type": "string", "default": "json", "description": "json, csv, xlsx or pdf", "name": "format", "in": "query"},
                    {"type": "boolean", "description": "Return the generated queries only", "name": "sqlOnly", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Create report configuration",
                "parameters": [
                    {"type": "string", "description": "Tenant id", "name": "X-Tenant-Id", "in": "header"},
                    {"description": "Report configuration", "name": "report", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ReportConfiguration"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/plugins/analytics/reports/cache/clear": {
            "post": {
                "tags": ["Reports"],
                "summary": "Clear report caches",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/plugins/analytics/reports/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Get report configuration",
                "parameters": [
                    {"type": "string", "description": "Tenant id", "name": "X-Tenant-Id", "in": "header"},
                    {"type": "string", "description": "Report name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ReportConfiguration"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Update report configuration",
                "parameters": [
                    {"type": "string", "description": "Tenant id", "name": "X-Tenant-Id", "in": "header"},
                    {"type": "string", "description": "Report name", "name": "name", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "report", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ReportConfiguration"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "delete": {
                "tags": ["Reports"],
                "summary": "Delete report configuration",
                "parameters": [
                    {"type": "string", "description": "Tenant id", "name": "X-Tenant-Id", "in": "header"},
                    {"type": "string", "description": "Report name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/plugins/analytics/reports/{name}/refresh": {
            "put": {
                "description": "Start the refresh procedure of a report without waiting for it",
                "tags": ["Reports"],
                "summary": "Refresh report data",
                "parameters": [
                    {"type": "string", "description": "Tenant id", "name": "X-Tenant-Id", "in": "header"},
                    {"type": "string", "description": "Report name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "models.CreateReportRequest": {
            "type": "object",
            "properties": {
                "report_name": {"type": "string"},
                "report_pretty_name": {"type": "string"},
                "report_type": {"type": "string", "enum": ["COUNTERS", "TIMELINE", "TABLE"]},
                "source_table_name": {"type": "string"},
                "refresh_procedure_name": {"type": "string"},
                "refresh_frequency": {"type": "string", "enum": ["HOURLY", "DAILY"]},
                "refresh_hour_of_day_gmt": {"type": "integer"}
            }
        },
        "models.UpdateReportRequest": {
            "type": "object",
            "properties": {
                "report_pretty_name": {"type": "string"},
                "report_type": {"type": "string", "enum": ["COUNTERS", "TIMELINE", "TABLE"]},
                "source_table_name": {"type": "string"},
                "refresh_procedure_name": {"type": "string"},
                "refresh_frequency": {"type": "string", "enum": ["HOURLY", "DAILY"]},
                "refresh_hour_of_day_gmt": {"type": "integer"},
                "clear_refresh": {"type": "boolean"}
            }
        },
        "models.ReportConfiguration": {
            "type": "object",
            "properties": {
                "record_id": {"type": "integer"},
                "tenant_record_id": {"type": "integer"},
                "report_name": {"type": "string"},
                "report_pretty_name": {"type": "string"},
                "report_type": {"type": "string"},
                "source_table_name": {"type": "string"},
                "refresh_procedure_name": {"type": "string"},
                "refresh_frequency": {"type": "string"},
                "refresh_hour_of_day_gmt": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Analytics Reports API",
	Description:      "Dashboard reports: timelines, counters and tables computed from pre-aggregated tables",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
