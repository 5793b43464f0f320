package http

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/pkg/slogx"
)

// utf8BOM keeps Excel from mangling Japanese column headers.
const utf8BOM = "\uFEFF"

var csvHeader = []string{"氏名", "会社名", "電話番号", "メールアドレス", "都道府県", "業種", "メモ", "ステータス"}

type CSVHandler struct {
	LeadService *service.LeadService
}

type csvExportRequest struct {
	Status     string `json:"status"`
	OwnerID    int64  `json:"ownerId"`
	ListID     int64  `json:"listId"`
	CampaignID int64  `json:"campaignId"`
}

// HandleExportLeads streams the filtered leads as UTF-8 CSV with a BOM.
func (h *CSVHandler) HandleExportLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req csvExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)
		return
	}

	leads, err := h.LeadService.List(ctx, domain.LeadFilter{
		Status:     domain.LeadStatus(req.Status),
		OwnerID:    req.OwnerID,
		ListID:     req.ListID,
		CampaignID: req.CampaignID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	if _, err := w.Write([]byte(utf8BOM)); err != nil {
		return
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		log.Error("failed to write csv header", slog.Any("error", err))
		return
	}
	for _, l := range leads {
		record := []string{l.Name, l.Company, l.Phone, l.Email, l.Prefecture, l.Industry, l.Memo, string(l.Status)}
		if err := cw.Write(record); err != nil {
			log.Error("failed to write csv record", slog.Any("error", err))
			return
		}
	}
	cw.Flush()
}

// HandleSample serves an import template with a few example rows.
func (h *CSVHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_leads.csv"`)
	if _, err := w.Write([]byte(utf8BOM)); err != nil {
		return
	}

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"氏名", "会社名", "電話番号", "メールアドレス", "都道府県", "業種", "メモ"})
	_ = cw.Write([]string{"山田 太郎", "株式会社サンプル", "03-1234-5678", "yamada@sample.co.jp", "東京都", "IT", "テストデータ1"})
	_ = cw.Write([]string{"佐藤 花子", "テスト商事", "06-9876-5432", "sato@test.co.jp", "大阪府", "製造業", "テストデータ2"})
	_ = cw.Write([]string{"鈴木 一郎", "サンプル工業", "052-1111-2222", "suzuki@sample.jp", "愛知県", "サービス業", "テストデータ3"})
	cw.Flush()
}
