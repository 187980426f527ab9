package api

import (
	"net/http"
	"strings"

	"hotelops/internal/models"
)

func (s *HTTPServer) handleTickets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		HotelID    string `json:"hotel_id"`
		ServiceKey string `json:"service_key"`
		Room       string `json:"room"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ticket, err := s.tickets.CreateTicket(r.Context(), body.HotelID, body.ServiceKey, body.Room)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (s *HTTPServer) handleTicketByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/tickets/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		ticket, err := s.tickets.GetTicket(r.Context(), parts[0])
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ticket)

	case len(parts) == 2 && parts[1] == "close":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		result, err := s.tickets.CloseTicket(r.Context(), parts[0])
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		HotelID    string `json:"hotel_id"`
		ItemKey    string `json:"item_key"`
		Qty        int64  `json:"qty"`
		PricePaise int64  `json:"price_paise"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := s.orders.CreateOrder(r.Context(), body.HotelID, body.ItemKey, body.Qty, body.PricePaise)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *HTTPServer) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/orders/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		order, err := s.orders.GetOrder(r.Context(), parts[0])
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)

	case len(parts) == 2 && parts[1] == "status":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.orders.SetOrderStatus(r.Context(), parts[0], body.Status); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		hotelID := strings.TrimSpace(r.URL.Query().Get("hotel_id"))
		if hotelID == "" {
			writeError(w, http.StatusBadRequest, "hotel_id is required")
			return
		}
		services, err := s.catalog.GetServices(r.Context(), hotelID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": services})

	case http.MethodPost:
		var body struct {
			HotelID    string `json:"hotel_id"`
			Key        string `json:"key"`
			Label      string `json:"label"`
			SLAMinutes int64  `json:"sla_minutes"`
			Active     *bool  `json:"active"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if body.Active != nil && !*body.Active {
			if err := s.catalog.DeactivateService(r.Context(), body.HotelID, body.Key); err != nil {
				s.writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}

		svc := &models.Service{
			HotelID:    body.HotelID,
			Key:        body.Key,
			Label:      body.Label,
			SLAMinutes: body.SLAMinutes,
			Active:     true,
		}
		if err := s.catalog.UpsertService(r.Context(), svc); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRewardsClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		UserID      string `json:"user_id"`
		HotelID     string `json:"hotel_id"`
		AmountPaise int64  `json:"amount_paise"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	voucher, err := s.rewards.ClaimRewards(r.Context(), body.UserID, body.HotelID, body.AmountPaise)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	// Fresh balance so the caller does not have to reconstruct it.
	balance, err := s.rewards.GetBalance(r.Context(), body.UserID, body.HotelID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"voucher":       voucher,
		"balance_paise": balance,
	})
}

func (s *HTTPServer) handleRewardsBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	hotelID := strings.TrimSpace(r.URL.Query().Get("hotel_id"))

	balance, err := s.rewards.GetBalance(r.Context(), userID, hotelID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance_paise": balance})
}

func (s *HTTPServer) handleVouchers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	hotelID := strings.TrimSpace(r.URL.Query().Get("hotel_id"))

	vouchers, err := s.rewards.GetVouchers(r.Context(), userID, hotelID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vouchers": vouchers})
}

func (s *HTTPServer) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	alerts, err := s.sweeper.Sweep(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if alerts == nil {
		alerts = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}
