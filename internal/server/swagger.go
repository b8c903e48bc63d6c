package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title SiteAudit API
// @version 0.1
// @description Interactive documentation for the SiteAudit scan API surface.
// @contact.name SiteAudit Maintainers
// @contact.url https://github.com/raysh454/siteaudit
// @BasePath /
