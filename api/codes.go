package api

import (
	"net/http"

	"videoadmin/respond"
)

// Code é o código de erro de domínio devolvido no envelope.
type Code string

const (
	CodeAuthRequired Code = "AUTH_REQUIRED"
	CodeInvalidJSON  Code = "INVALID_JSON"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeInvalidParam Code = "INVALID_PARAM"
	CodeInvalidQuery Code = "INVALID_QUERY"
	CodeQueueFull    Code = "RATE_LIMIT_QUEUE_FULL"

	CodeRouteNotFound    Code = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	CodeInternal         Code = "INTERNAL_ERROR"

	CodeAssetNotFound   Code = "ASSET_NOT_FOUND"
	CodeUploadNotFound  Code = "UPLOAD_NOT_FOUND"
	CodeLibraryNotFound Code = "LIBRARY_NOT_FOUND"

	CodeMuxListAssetsFailed   Code = "MUX_LIST_ASSETS_FAILED"
	CodeMuxGetAssetFailed     Code = "MUX_GET_ASSET_FAILED"
	CodeMuxCreateAssetFailed  Code = "MUX_CREATE_ASSET_FAILED"
	CodeMuxDeleteAssetFailed  Code = "MUX_DELETE_ASSET_FAILED"
	CodeMuxCreateUploadFailed Code = "MUX_CREATE_UPLOAD_FAILED"
	CodeMuxGetUploadFailed    Code = "MUX_GET_UPLOAD_FAILED"
	CodeMuxMetricsFailed      Code = "MUX_METRICS_FAILED"

	CodeDBGetLibraryFailed    Code = "DB_GET_LIBRARY_FAILED"
	CodeDBSaveAssetFailed     Code = "DB_SAVE_ASSET_FAILED"
	CodeDBDeleteAssetFailed   Code = "DB_DELETE_ASSET_FAILED"
	CodeDBSaveTokenFailed     Code = "DB_SAVE_TOKEN_FAILED"
	CodeDBListTokensFailed    Code = "DB_LIST_TOKENS_FAILED"
	CodeDBListUsageFailed     Code = "DB_LIST_USAGE_FAILED"
	CodeDBListLibrariesFailed Code = "DB_LIST_LIBRARIES_FAILED"
	CodeDBCreateLibraryFailed Code = "DB_CREATE_LIBRARY_FAILED"
	CodeDBDeleteLibraryFailed Code = "DB_DELETE_LIBRARY_FAILED"
	CodeDBGetSettingsFailed   Code = "DB_GET_SETTINGS_FAILED"
	CodeDBSaveSettingsFailed  Code = "DB_SAVE_SETTINGS_FAILED"
)

// statuses é o status de cada código. Cada endpoint declara o subconjunto que pode devolver.
var statuses = map[Code]int{
	CodeAuthRequired: http.StatusUnauthorized,
	CodeInvalidJSON:  http.StatusBadRequest,
	CodeInvalidInput: http.StatusBadRequest,
	CodeInvalidParam: http.StatusBadRequest,
	CodeInvalidQuery: http.StatusBadRequest,
	CodeQueueFull:    http.StatusServiceUnavailable,

	CodeRouteNotFound:    http.StatusNotFound,
	CodeMethodNotAllowed: http.StatusMethodNotAllowed,
	CodeInternal:         http.StatusInternalServerError,

	CodeAssetNotFound:   http.StatusNotFound,
	CodeUploadNotFound:  http.StatusNotFound,
	CodeLibraryNotFound: http.StatusNotFound,

	CodeMuxListAssetsFailed:   http.StatusBadGateway,
	CodeMuxGetAssetFailed:     http.StatusBadGateway,
	CodeMuxCreateAssetFailed:  http.StatusBadGateway,
	CodeMuxDeleteAssetFailed:  http.StatusBadGateway,
	CodeMuxCreateUploadFailed: http.StatusBadGateway,
	CodeMuxGetUploadFailed:    http.StatusBadGateway,
	CodeMuxMetricsFailed:      http.StatusBadGateway,

	CodeDBGetLibraryFailed:    http.StatusInternalServerError,
	CodeDBSaveAssetFailed:     http.StatusInternalServerError,
	CodeDBDeleteAssetFailed:   http.StatusInternalServerError,
	CodeDBSaveTokenFailed:     http.StatusInternalServerError,
	CodeDBListTokensFailed:    http.StatusInternalServerError,
	CodeDBListUsageFailed:     http.StatusInternalServerError,
	CodeDBListLibrariesFailed: http.StatusInternalServerError,
	CodeDBCreateLibraryFailed: http.StatusInternalServerError,
	CodeDBDeleteLibraryFailed: http.StatusInternalServerError,
	CodeDBGetSettingsFailed:   http.StatusInternalServerError,
	CodeDBSaveSettingsFailed:  http.StatusInternalServerError,
}

// Códigos declarados por endpoint.
var (
	listAssetsCodes   = []Code{CodeAuthRequired, CodeInvalidQuery, CodeQueueFull, CodeMuxListAssetsFailed}
	getAssetCodes     = []Code{CodeAuthRequired, CodeInvalidParam, CodeQueueFull, CodeAssetNotFound, CodeMuxGetAssetFailed}
	createAssetCodes  = []Code{CodeAuthRequired, CodeInvalidJSON, CodeInvalidInput, CodeLibraryNotFound, CodeDBGetLibraryFailed, CodeQueueFull, CodeMuxCreateAssetFailed, CodeDBSaveAssetFailed}
	deleteAssetCodes  = []Code{CodeAuthRequired, CodeInvalidParam, CodeQueueFull, CodeAssetNotFound, CodeMuxDeleteAssetFailed, CodeDBDeleteAssetFailed}
	createUploadCodes = []Code{CodeAuthRequired, CodeInvalidJSON, CodeInvalidInput, CodeQueueFull, CodeMuxCreateUploadFailed, CodeDBSaveTokenFailed}
	listUploadsCodes  = []Code{CodeAuthRequired, CodeDBListTokensFailed}
	getUploadCodes    = []Code{CodeAuthRequired, CodeInvalidParam, CodeQueueFull, CodeUploadNotFound, CodeMuxGetUploadFailed}
	analyticsCodes    = []Code{CodeAuthRequired, CodeInvalidParam, CodeInvalidQuery, CodeQueueFull, CodeMuxMetricsFailed}
	usageCodes        = []Code{CodeAuthRequired, CodeInvalidQuery, CodeDBListUsageFailed}
	listLibsCodes     = []Code{CodeAuthRequired, CodeDBListLibrariesFailed}
	createLibCodes    = []Code{CodeAuthRequired, CodeInvalidJSON, CodeInvalidInput, CodeDBCreateLibraryFailed}
	deleteLibCodes    = []Code{CodeAuthRequired, CodeInvalidParam, CodeLibraryNotFound, CodeDBDeleteLibraryFailed}
	getSettingsCodes  = []Code{CodeAuthRequired, CodeDBGetSettingsFailed}
	putSettingsCodes  = []Code{CodeAuthRequired, CodeInvalidJSON, CodeInvalidInput, CodeDBSaveSettingsFailed, CodeDBGetSettingsFailed}
	healthCodes       = []Code{}
	routingCodes      = []Code{CodeRouteNotFound, CodeMethodNotAllowed, CodeInternal}
)

// Tabelas montadas na inicialização do pacote: código sem status derruba o processo no boot.
var (
	listAssetsTable   = respond.MustTable(statuses, listAssetsCodes...)
	getAssetTable     = respond.MustTable(statuses, getAssetCodes...)
	createAssetTable  = respond.MustTable(statuses, createAssetCodes...)
	deleteAssetTable  = respond.MustTable(statuses, deleteAssetCodes...)
	createUploadTable = respond.MustTable(statuses, createUploadCodes...)
	listUploadsTable  = respond.MustTable(statuses, listUploadsCodes...)
	getUploadTable    = respond.MustTable(statuses, getUploadCodes...)
	analyticsTable    = respond.MustTable(statuses, analyticsCodes...)
	usageTable        = respond.MustTable(statuses, usageCodes...)
	listLibsTable     = respond.MustTable(statuses, listLibsCodes...)
	createLibTable    = respond.MustTable(statuses, createLibCodes...)
	deleteLibTable    = respond.MustTable(statuses, deleteLibCodes...)
	getSettingsTable  = respond.MustTable(statuses, getSettingsCodes...)
	putSettingsTable  = respond.MustTable(statuses, putSettingsCodes...)
	healthTable       = respond.MustTable(statuses, healthCodes...)
	routingTable      = respond.MustTable(statuses, routingCodes...)
)

// Endpoint descreve uma rota e seus códigos declarados.
type Endpoint struct {
	Method string
	Path   string
	Codes  []Code
	Table  respond.Table[Code]
}

// Endpoints lista todas as rotas da API.
func Endpoints() []Endpoint {
	return []Endpoint{
		{http.MethodGet, "/api/assets", listAssetsCodes, listAssetsTable},
		{http.MethodGet, "/api/assets/{id}", getAssetCodes, getAssetTable},
		{http.MethodPost, "/api/assets", createAssetCodes, createAssetTable},
		{http.MethodDelete, "/api/assets/{id}", deleteAssetCodes, deleteAssetTable},
		{http.MethodPost, "/api/uploads", createUploadCodes, createUploadTable},
		{http.MethodGet, "/api/uploads", listUploadsCodes, listUploadsTable},
		{http.MethodGet, "/api/uploads/{id}", getUploadCodes, getUploadTable},
		{http.MethodGet, "/api/analytics/{metric}", analyticsCodes, analyticsTable},
		{http.MethodGet, "/api/usage", usageCodes, usageTable},
		{http.MethodGet, "/api/libraries", listLibsCodes, listLibsTable},
		{http.MethodPost, "/api/libraries", createLibCodes, createLibTable},
		{http.MethodDelete, "/api/libraries/{id}", deleteLibCodes, deleteLibTable},
		{http.MethodGet, "/api/settings", getSettingsCodes, getSettingsTable},
		{http.MethodPut, "/api/settings", putSettingsCodes, putSettingsTable},
		{http.MethodGet, "/healthz", healthCodes, healthTable},
	}
}

var messages = map[Code]string{
	CodeRouteNotFound:         "Route not found",
	CodeMethodNotAllowed:      "Method not allowed",
	CodeInternal:              "Internal server error",
	CodeQueueFull:             "Video platform is saturated, try again later",
	CodeAssetNotFound:         "Asset not found",
	CodeUploadNotFound:        "Upload not found",
	CodeLibraryNotFound:       "Library not found",
	CodeMuxListAssetsFailed:   "Failed to list assets",
	CodeMuxGetAssetFailed:     "Failed to fetch asset",
	CodeMuxCreateAssetFailed:  "Failed to create asset",
	CodeMuxDeleteAssetFailed:  "Failed to delete asset",
	CodeMuxCreateUploadFailed: "Failed to create upload",
	CodeMuxGetUploadFailed:    "Failed to fetch upload",
	CodeMuxMetricsFailed:      "Failed to fetch metrics",
	CodeDBGetLibraryFailed:    "Failed to load library",
	CodeDBSaveAssetFailed:     "Asset created but its metadata could not be saved",
	CodeDBDeleteAssetFailed:   "Asset deleted but its metadata could not be removed",
	CodeDBSaveTokenFailed:     "Upload created but its token could not be saved",
	CodeDBListTokensFailed:    "Failed to list uploads",
	CodeDBListUsageFailed:     "Failed to load usage",
	CodeDBListLibrariesFailed: "Failed to list libraries",
	CodeDBCreateLibraryFailed: "Failed to create library",
	CodeDBDeleteLibraryFailed: "Failed to delete library",
	CodeDBGetSettingsFailed:   "Failed to load settings",
	CodeDBSaveSettingsFailed:  "Failed to save settings",
}

// messageFor devolve a mensagem legível do código; sem entrada, o próprio código.
func messageFor(c Code) string {
	if m, ok := messages[c]; ok {
		return m
	}
	return string(c)
}
