package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"videoadmin/mux"
	"videoadmin/result"
	"videoadmin/store"
)

const (
	metricTags = "required,oneof=views unique_viewers playing_time video_startup_time rebuffer_percentage viewer_experience_score"

	defaultTimeframe = "7:days"
	defaultGroupBy   = "country"
	defaultUsageDays = 30
)

type analyticsQuery struct {
	Timeframe string `query:"timeframe" validate:"oneof=24:hours 7:days 30:days 90:days"`
	GroupBy   string `query:"group_by" validate:"oneof=country browser operating_system device_type video_title"`
}

type analyticsView struct {
	Metric    string               `json:"metric"`
	Timeframe string               `json:"timeframe"`
	GroupBy   string               `json:"group_by"`
	Data      []mux.BreakdownValue `json:"data"`
	TotalRows int64                `json:"total_row_count"`
}

type usageQuery struct {
	Days int `query:"days" validate:"gte=1,lte=365"`
}

func (h *Handler) analytics(r *http.Request) result.Result[analyticsView, Code] {
	metric := chi.URLParam(r, "metric")
	if msg, ok := checkVar("metric", metric, metricTags); !ok {
		return result.Err[analyticsView](CodeInvalidParam, msg)
	}

	q := analyticsQuery{
		Timeframe: strings.TrimSpace(r.URL.Query().Get("timeframe")),
		GroupBy:   strings.TrimSpace(r.URL.Query().Get("group_by")),
	}
	if q.Timeframe == "" {
		q.Timeframe = defaultTimeframe
	}
	if q.GroupBy == "" {
		q.GroupBy = defaultGroupBy
	}
	if msg, ok := checkStruct(&q); !ok {
		return result.Err[analyticsView](CodeInvalidQuery, msg)
	}

	b, err := h.platform.Metrics(r.Context(), mux.MetricsQuery{
		Metric:    metric,
		Timeframe: []string{q.Timeframe},
		GroupBy:   q.GroupBy,
	})
	if err != nil {
		return remoteFailure[analyticsView](r.Context(), err, "", CodeMuxMetricsFailed)
	}
	if b.Data == nil {
		b.Data = []mux.BreakdownValue{}
	}
	return result.Ok[analyticsView, Code](analyticsView{
		Metric:    metric,
		Timeframe: q.Timeframe,
		GroupBy:   q.GroupBy,
		Data:      b.Data,
		TotalRows: b.TotalRowCount,
	})
}

func (h *Handler) usage(r *http.Request) result.Result[[]store.UsageDay, Code] {
	days, err := queryInt(r, "days", defaultUsageDays)
	if err != nil {
		return result.Err[[]store.UsageDay](CodeInvalidQuery, err.Error())
	}
	q := usageQuery{Days: days}
	if msg, ok := checkStruct(&q); !ok {
		return result.Err[[]store.UsageDay](CodeInvalidQuery, msg)
	}

	out, err := h.store.ListUsage(r.Context(), q.Days, h.now())
	if err != nil {
		return storeFailure[[]store.UsageDay](r.Context(), err, "", CodeDBListUsageFailed)
	}
	return result.Ok[[]store.UsageDay, Code](out)
}
