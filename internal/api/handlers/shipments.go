package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"shipment-ops-service/internal/api/dto"
	"shipment-ops-service/internal/domain"
	"shipment-ops-service/internal/ports"
	"shipment-ops-service/internal/regions"
	"shipment-ops-service/internal/services"
)

// ShipmentHandler exposes the shipment listing, detail and stats endpoints.
// Now is injected so handler tests can pin the classification day.
type ShipmentHandler struct {
	Repo    ports.ShipmentRepository
	Regions *regions.Table
	Stats   ports.StatsCache
	Now     func() time.Time
}

// List returns classified shipments with filtering, sorting, stats and
// pagination applied.
func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := strings.TrimSpace(r.URL.Query().Get("filter"))
	if !services.ValidFilter(filter) {
		writeError(w, r, http.StatusBadRequest, "unknown filter")
		return
	}

	from, ok := queryDate(r, "from")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid from date")
		return
	}
	to, ok := queryDate(r, "to")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid to date")
		return
	}

	req := services.ListShipmentsRequest{
		Filter:   filter,
		Status:   domain.ShipmentStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		Search:   r.URL.Query().Get("search"),
		From:     from,
		To:       to,
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
		Now:      h.Now(),
	}

	res, err := services.ListShipments(r.Context(), req, h.Repo, h.Regions, h.Stats)
	if err != nil {
		log.Printf("list shipments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.ListShipmentsResponse{
		Data:       make([]dto.ShipmentResponse, 0, len(res.Shipments)),
		Stats:      toStatsResponse(res.Stats),
		TotalCount: res.TotalCount,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
		Success:    true,
	}
	for _, cs := range res.Shipments {
		out.Data = append(out.Data, toShipmentResponse(cs))
	}

	writeJSON(w, r, http.StatusOK, out)
}

// Get returns one shipment with its derived fields.
func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid shipment id")
		return
	}

	s, err := h.Repo.GetShipment(r.Context(), id)
	if errors.Is(err, ports.ErrShipmentNotFound) {
		writeError(w, r, http.StatusNotFound, "shipment not found")
		return
	}
	if err != nil {
		log.Printf("get shipment failed: id=%d err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	cs := domain.ClassifiedShipment{
		Shipment:       s,
		Classification: services.Classify(s, services.Midnight(h.Now()), h.Regions),
	}

	writeJSON(w, r, http.StatusOK, dto.GetShipmentResponse{
		Data:    toShipmentResponse(cs),
		Success: true,
	})
}

// GetStats returns the listing statistics for a storage query, cached for a
// short window.
func (h *ShipmentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	from, ok := queryDate(r, "from")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid from date")
		return
	}
	to, ok := queryDate(r, "to")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid to date")
		return
	}

	q := ports.ShipmentQuery{
		Status: domain.ShipmentStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		Search: r.URL.Query().Get("search"),
		From:   from,
		To:     to,
	}

	stats, err := services.ShipmentStatsFor(r.Context(), q, h.Now(), h.Repo, h.Regions, h.Stats)
	if err != nil {
		log.Printf("shipment stats failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StatsEnvelope{
		Stats:   toStatsResponse(stats),
		Success: true,
	})
}

func toShipmentResponse(cs domain.ClassifiedShipment) dto.ShipmentResponse {
	s, c := cs.Shipment, cs.Classification
	return dto.ShipmentResponse{
		ID:                  s.ID,
		TrackingNo:          s.TrackingNo,
		Status:              string(s.Status),
		PickupRequestedAt:   s.PickupRequestedAt,
		PickupCompletedAt:   s.PickupCompletedAt,
		DeliveryStartedAt:   s.DeliveryStartedAt,
		DeliveryCompletedAt: s.DeliveryCompletedAt,
		UpdatedAt:           s.UpdatedAt,
		CreatedAt:           s.CreatedAt,
		PickupZipcode:       s.PickupZipcode,
		DeliveryZipcode:     s.DeliveryZipcode,
		PickupAddress:       s.PickupAddress,
		DeliveryAddress:     s.DeliveryAddress,
		NotifyMsg:           s.NotifyMsg,

		IsIsland:             c.IsIsland,
		IsSaturdayClosed:     c.IsSaturdayClosed,
		ExpectedPickupDate:   c.ExpectedPickupDate,
		ExpectedDeliveryDate: c.ExpectedDeliveryDate,
		IsPickupDelayed:      c.IsPickupDelayed,
		IsDeliveryDelayed:    c.IsDeliveryDelayed,
		IsDelayed:            c.IsDelayed,
		PickupDelayDays:      c.PickupDelayDays,
		DeliveryDelayDays:    c.DeliveryDelayDays,
		DelayDays:            c.DelayDays,
	}
}

func toStatsResponse(st domain.ShipmentStats) dto.StatsResponse {
	return dto.StatsResponse{
		Total:           st.Total,
		Delayed:         st.Delayed,
		PickupDelayed:   st.PickupDelayed,
		DeliveryDelayed: st.DeliveryDelayed,
		Island:          st.Island,
		SaturdayClosed:  st.SaturdayClosed,
	}
}
