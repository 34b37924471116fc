package services

import (
	"bytes"
	"strings"
	"testing"
)

func TestVoucherServiceGenerate(t *testing.T) {
	loader := func(id int64) (voucherDocData, error) {
		return voucherDocData{
			BookingID:     id,
			Reference:     "REF-XYZ",
			AdventureName: "Kayak no Rio",
			TripDate:      "2026-07-10",
			TripTime:      "09:00",
			Adults:        2,
			Children:      1,
			Babies:        0,
			CustomerName:  "Ana Souza",
			CustomerPhone: "+55 11 99999-0000",
			AgencyName:    "Litoral Tours",
			Total:         115,
			Commission:    17.25,
			Net:           97.75,
			Deposit:       30,
			Status:        "Confirmed",
			PaymentStatus: "Partial",
		}, nil
	}

	svc := VoucherService{Loader: loader}

	pdf, filename, err := svc.GenerateVoucher(1)
	if err != nil {
		t.Fatalf("GenerateVoucher returned error: %v", err)
	}
	if len(pdf) == 0 || filename == "" {
		t.Fatal("GenerateVoucher returned empty data")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("voucher output is not a PDF")
	}
	if !strings.Contains(filename, "REF-XYZ") {
		t.Fatalf("filename missing reference: %s", filename)
	}

	invoice, invName, err := svc.GenerateInvoice(1)
	if err != nil {
		t.Fatalf("GenerateInvoice returned error: %v", err)
	}
	if len(invoice) == 0 || invName == "" {
		t.Fatal("GenerateInvoice returned empty data")
	}
}

func TestVoucherFilenameSanitized(t *testing.T) {
	loader := func(id int64) (voucherDocData, error) {
		return voucherDocData{
			BookingID:    id,
			Reference:    `ab/c:d*e "f"`,
			CustomerName: "Tester",
		}, nil
	}

	svc := VoucherService{Loader: loader}

	_, filename, err := svc.GenerateVoucher(9)
	if err != nil {
		t.Fatalf("GenerateVoucher returned error: %v", err)
	}
	for _, bad := range []string{"/", ":", "*", `"`, " "} {
		if strings.Contains(filename, bad) {
			t.Fatalf("filename contains %q: %s", bad, filename)
		}
	}
}
