// Package docs registers the OpenAPI description of the asset manager lineage exchange API.
//
// @title           Asset Manager OMAS Lineage Exchange API
// @version         1.0.0
// @description     Exchange of processes, ports and lineage relationships between third party
// @description     asset managers and the open metadata ecosystem.
// @description
// @description     ## Errors
// @description
// @description     Operations answer HTTP 200 and report failures in the exception fields of the
// @description     response body. Malformed requests are answered with RFC 7807 problem details.
//
// @license.name  Apache 2.0
// @license.url   https://www.apache.org/licenses/LICENSE-2.0.html
//
// @BasePath  /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package docs
