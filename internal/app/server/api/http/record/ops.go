package record

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/records",
		Summary:     "Record a punch",
		Description: "Inserts a time record idempotently. Submissions carrying an offline_id already present return the existing record with inserted=false instead of creating a duplicate.",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findByOfflineIDOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-find-offline",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/offline/{offlineId}",
		Summary:     "Find a record by offline id",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List records in a time range",
		Description: "Returns the caller's records with from <= timestamp < to, ordered by timestamp ascending.",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
