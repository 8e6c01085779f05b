package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Checkout API",
        "description": "Shared inventory reservations and movement planning for school sites",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Sites", "description": "Site roster"},
        {"name": "Calendar", "description": "Periods, weeks and classrooms"},
        {"name": "Catalog", "description": "Inventory catalog and site allocations"},
        {"name": "Availability", "description": "Free-unit queries"},
        {"name": "Reservations", "description": "Reservation ledger"},
        {"name": "Schedules", "description": "Reservation and movement schedules"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/sites": {
            "get": {
                "tags": ["Sites"],
                "summary": "List sites",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sites"],
                "summary": "Create site",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSiteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sites/{siteId}/periods": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List periods in schedule order",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Calendar not configured"}
                }
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Add a period",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sites/{siteId}/weeks": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List weeks",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Add a week of working days",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWeekRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sites/{siteId}/weeks/{id}": {
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete a week",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sites/{siteId}/classrooms": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List classrooms",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Add a classroom",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/types": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Add a category",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSKUTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/skus": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the catalog with assignment totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Add a catalog item",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSKURequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sites/{siteId}/skus": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List site allocations",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Assign catalog units to a site",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSiteSKURequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Over-allocated"}
                }
            }
        },
        "/sites/{siteId}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Free-unit grid for every allocation at a site",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "type_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Calendar not configured"}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Free units for one allocation slot or day",
                "parameters": [
                    {"name": "site_sku_id", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "period_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/pick": {
            "post": {
                "tags": ["Availability"],
                "summary": "Pick the best allocation for a request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PickAllocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Nothing fits"}
                }
            }
        },
        "/reservations": {
            "get": {
                "tags": ["Reservations"],
                "summary": "List reservations",
                "parameters": [
                    {"name": "site_id", "in": "query", "type": "string"},
                    {"name": "site_sku_id", "in": "query", "type": "string"},
                    {"name": "team_id", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "period_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Reservations"],
                "summary": "Create a reservation batch",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Capacity exceeded or duplicate"}
                }
            }
        },
        "/reservations/{id}": {
            "delete": {
                "tags": ["Reservations"],
                "summary": "Delete a reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Not a team member"}
                }
            }
        },
        "/sites/{siteId}/schedule/{date}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Reservation schedule for one date",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sites/{siteId}/schedule/{date}/movements": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Movement schedule for one date",
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Calendar not configured"}
                }
            }
        },
        "/sites/{siteId}/schedule/{date}/movements.csv": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download the movement schedule as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/sites/{siteId}/schedule/{date}/movements.pdf": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download the movement schedule as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "siteId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateSiteRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "number": {"type": "integer"},
                "name": {"type": "string"}
            },
            "required": ["number", "name"]
        },
        "CreateWeekRequest": {
            "type": "object",
            "properties": {
                "week_number": {"type": "integer"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "holidays": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["week_number", "start_date", "end_date"]
        },
        "CreateClassroomRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"}
            },
            "required": ["code", "name"]
        },
        "CreateSKUTypeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "CreateSKURequest": {
            "type": "object",
            "properties": {
                "type_id": {"type": "string"},
                "model_identifier": {"type": "string"},
                "display_name": {"type": "string"},
                "units": {"type": "integer"}
            },
            "required": ["type_id", "model_identifier", "display_name", "units"]
        },
        "CreateSiteSKURequest": {
            "type": "object",
            "properties": {
                "sku_id": {"type": "string"},
                "units": {"type": "integer"},
                "storage_location": {"type": "string"}
            },
            "required": ["sku_id", "units"]
        },
        "PickAllocationRequest": {
            "type": "object",
            "properties": {
                "site_id": {"type": "string"},
                "date": {"type": "string"},
                "period_id": {"type": "string"},
                "type_id": {"type": "string"}
            },
            "required": ["site_id", "date", "period_id"]
        },
        "CreateReservationRequest": {
            "type": "object",
            "properties": {
                "site_sku_id": {"type": "string"},
                "classroom_id": {"type": "string"},
                "dates": {"type": "array", "items": {"type": "string"}},
                "period_ids": {"type": "array", "items": {"type": "string"}},
                "units": {"type": "integer"},
                "purpose": {"type": "string"},
                "collaborative": {"type": "boolean"},
                "comment": {"type": "string"}
            },
            "required": ["site_sku_id", "classroom_id", "dates", "period_ids", "units", "purpose"]
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
                "pagination": {"type": "object"},
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
