package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "https://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/topics/out-topic-connection/{callerId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get the out topic connection",
                "parameters": [
                    {"type": "string", "description": "Server name", "name": "serverName", "in": "path", "required": true},
                    {"type": "string", "description": "Calling user", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "description": "Unique name of the listening server", "name": "callerId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.ConnectionResponse"}}
                }
            }
        },
        "/servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/processes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["processes"],
                "summary": "Create a process",
                "parameters": [
                    {"type": "string", "description": "Server name", "name": "serverName", "in": "path", "required": true},
                    {"type": "string", "description": "Calling user", "name": "userId", "in": "path", "required": true},
                    {"type": "boolean", "description": "Only the calling asset manager may update the process", "name": "assetManagerIsHome", "in": "query"},
                    {"description": "Process properties", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.ProcessRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.GUIDResponse"}}
                }
            }
        },
        "/servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/processes/by-search-string": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["processes"],
                "summary": "Find processes by regular expression",
                "parameters": [
                    {"type": "string", "description": "Server name", "name": "serverName", "in": "path", "required": true},
                    {"type": "string", "description": "Calling user", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "description": "First result to return", "name": "startFrom", "in": "query"},
                    {"type": "integer", "description": "Maximum number of results", "name": "pageSize", "in": "query"},
                    {"description": "Search string", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/rest.SearchStringRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/servers/{serverName}/open-metadata/access-services/asset-manager/users/{userId}/data-flows/suppliers/{supplierGUID}/consumers/{consumerGUID}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["lineage"],
                "summary": "Link a data supplier to a data consumer",
                "parameters": [
                    {"type": "string", "description": "Server name", "name": "serverName", "in": "path", "required": true},
                    {"type": "string", "description": "Calling user", "name": "userId", "in": "path", "required": true},
                    {"type": "string", "description": "Supplier element", "name": "supplierGUID", "in": "path", "required": true},
                    {"type": "string", "description": "Consumer element", "name": "consumerGUID", "in": "path", "required": true},
                    {"type": "boolean", "description": "Only the calling asset manager may update the relationship", "name": "assetManagerIsHome", "in": "query"},
                    {"description": "Data flow properties", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/rest.DataFlowRequestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.GUIDResponse"}}
                }
            }
        }
    },
    "definitions": {
        "rest.APIResponse": {
            "type": "object",
            "properties": {
                "relatedHTTPCode": {"type": "integer"},
                "exceptionClassName": {"type": "string"},
                "exceptionCausedBy": {"type": "string"},
                "actionDescription": {"type": "string"},
                "exceptionErrorMessage": {"type": "string"},
                "exceptionErrorMessageId": {"type": "string"},
                "exceptionErrorMessageParameters": {"type": "array", "items": {"type": "string"}},
                "exceptionSystemAction": {"type": "string"},
                "exceptionUserAction": {"type": "string"},
                "exceptionProperties": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "rest.GUIDResponse": {
            "allOf": [
                {"$ref": "#/definitions/rest.APIResponse"},
                {"type": "object", "properties": {"guid": {"type": "string"}}}
            ]
        },
        "rest.Connection": {
            "type": "object",
            "properties": {
                "qualifiedName": {"type": "string"},
                "displayName": {"type": "string"},
                "connectorProviderClassName": {"type": "string"},
                "endpointAddress": {"type": "string"},
                "configurationProperties": {"type": "object"},
                "securedProperties": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "rest.ConnectionResponse": {
            "allOf": [
                {"$ref": "#/definitions/rest.APIResponse"},
                {"type": "object", "properties": {"connection": {"$ref": "#/definitions/rest.Connection"}}}
            ]
        },
        "rest.ProcessRequestBody": {
            "type": "object",
            "properties": {
                "metadataCorrelationProperties": {"type": "object"},
                "elementProperties": {"type": "object"},
                "processStatus": {"type": "string", "enum": ["UNKNOWN", "DRAFT", "PROPOSED", "APPROVED", "ACTIVE", "DISABLED", "DEPRECATED", "OTHER"]}
            }
        },
        "rest.SearchStringRequestBody": {
            "type": "object",
            "properties": {
                "assetManagerGUID": {"type": "string"},
                "assetManagerName": {"type": "string"},
                "searchString": {"type": "string"},
                "searchStringParameterName": {"type": "string"}
            }
        },
        "rest.DataFlowRequestBody": {
            "type": "object",
            "properties": {
                "assetManagerGUID": {"type": "string"},
                "assetManagerName": {"type": "string"},
                "properties": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds the exported description; the platform overrides Host at start up.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Asset Manager OMAS Lineage Exchange API",
	Description:      "Exchange of processes, ports and lineage relationships between third party asset managers and the open metadata ecosystem.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
