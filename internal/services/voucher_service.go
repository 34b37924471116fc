package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"backend/internal/repositories"
	"backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// VoucherService renders booking vouchers and invoices as PDF.
type VoucherService struct {
	BookingRepo   repositories.BookingRepository
	AdventureRepo repositories.AdventureRepository
	AgencyRepo    repositories.AgencyRepository
	RequestID     string
	Loader        func(int64) (voucherDocData, error)
}

type voucherDocData struct {
	BookingID     int64
	Reference     string
	AdventureName string
	TripDate      string
	TripTime      string
	Adults        int
	Children      int
	Babies        int
	CustomerName  string
	CustomerPhone string
	AgencyName    string
	Total         float64
	Commission    float64
	Net           float64
	Deposit       float64
	Status        string
	PaymentStatus string
}

func (s VoucherService) GenerateVoucher(bookingID int64) ([]byte, string, error) {
	data, err := s.loadVoucherData(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_voucher", fmt.Sprintf("booking_id=%d", bookingID))
	return buildVoucherPDF(data)
}

func (s VoucherService) GenerateInvoice(bookingID int64) ([]byte, string, error) {
	data, err := s.loadVoucherData(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildInvoicePDF(data)
}

func (s VoucherService) loadVoucherData(bookingID int64) (voucherDocData, error) {
	if s.Loader != nil {
		return s.Loader(bookingID)
	}
	var out voucherDocData
	b, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return out, err
	}
	out.BookingID = b.ID
	out.Reference = b.Reference
	out.TripDate = b.TripDate
	out.TripTime = b.TripTime
	out.Adults = b.Adults
	out.Children = b.Children
	out.Babies = b.Babies
	out.CustomerName = b.CustomerName
	out.CustomerPhone = b.CustomerPhone
	out.Total = b.TotalAmount
	out.Commission = b.CommissionAmount
	out.Net = b.NetAmount
	out.Deposit = b.DepositAmount
	out.Status = b.Status
	out.PaymentStatus = b.PaymentStatus

	if adv, err := s.AdventureRepo.GetByID(b.AdventureID); err == nil {
		out.AdventureName = adv.Name
	}
	if b.AgencyID != nil {
		if ag, err := s.AgencyRepo.GetByID(*b.AgencyID); err == nil {
			out.AgencyName = ag.Name
		}
	}
	return out, nil
}

func buildVoucherPDF(d voucherDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// fontes core são cp1252; tr cuida dos acentos
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Voucher", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "VOUCHER DE RESERVA")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Referência     : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Cliente        : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Telefone       : %s", safe(d.CustomerPhone, "-")),
		fmt.Sprintf("Passeio        : %s", safe(d.AdventureName, "-")),
		fmt.Sprintf("Data/Hora      : %s %s", safe(d.TripDate, "-"), safe(d.TripTime, "-")),
		fmt.Sprintf("Participantes  : %d adulto(s), %d criança(s), %d bebê(s)", d.Adults, d.Children, d.Babies),
		fmt.Sprintf("Status         : %s / pagamento %s", safe(d.Status, "-"), safe(d.PaymentStatus, "-")),
	}
	if d.AgencyName != "" {
		lines = append(lines, fmt.Sprintf("Agência        : %s", d.AgencyName))
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr("Apresente este voucher no ponto de encontro 15 minutos antes do horário."), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("VOUCHER_%d_%s.pdf", d.BookingID, safeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d voucherDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FATURA")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%d-%s", d.BookingID, safeFilenamePart(d.Reference))
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, tr("Nº Fatura   : "+invNo))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Emitida em  : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Faturado a:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Nome     : %s", safe(d.CustomerName, "-"))))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Telefone : %s", safe(d.CustomerPhone, "-"))))
	pdf.Ln(10)

	desc := fmt.Sprintf("%s em %s %s: %d adulto(s), %d criança(s), %d bebê(s)",
		safe(d.AdventureName, "-"), safe(d.TripDate, "-"), safe(d.TripTime, "-"),
		d.Adults, d.Children, d.Babies,
	)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Detalhes:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr("1) "+desc), "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, "Total bruto: EUR "+utils.FormatMoney(d.Total))
	pdf.Ln(6)
	if d.AgencyName != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Comissão %s: EUR %s", d.AgencyName, utils.FormatMoney(d.Commission))))
		pdf.Ln(6)
		pdf.Cell(0, 6, tr("Valor líquido: EUR "+utils.FormatMoney(d.Net)))
		pdf.Ln(6)
	}
	if d.Deposit > 0 {
		pdf.Cell(0, 6, "Sinal pago: EUR "+utils.FormatMoney(d.Deposit))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: EUR "+utils.FormatMoney(d.Total))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", d.BookingID, safeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
