// Package qris builds dynamic QRIS payment payloads and QR images.
package qris

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// Expiry is how long a generated QRIS code stays valid.
const Expiry = 15 * time.Minute

const (
	merchantName = "HOME72 KOS"
	merchantCity = "JAKARTA"
	merchantID   = "ID1020039572758"
)

// Code is a generated dynamic QRIS code.
type Code struct {
	Payload   string
	ImageURL  string
	ExpiresAt time.Time
}

// Generate builds a dynamic QRIS payload for the amount and renders it as a
// base64 PNG data URL.
func Generate(amount decimal.Decimal, reference string) (*Code, error) {
	payload := Payload(amount, reference)

	png, err := qrcode.Encode(payload, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qris image: %w", err)
	}

	return &Code{
		Payload:   payload,
		ImageURL:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		ExpiresAt: time.Now().Add(Expiry),
	}, nil
}

// Payload builds the EMV merchant-presented payload for a dynamic QRIS code.
func Payload(amount decimal.Decimal, reference string) string {
	p := tlv("00", "01") + // payload format
		tlv("01", "12") + // dynamic code
		tlv("26", tlv("00", "COM.HOME72.WWW")+tlv("01", merchantID)) +
		tlv("52", "6513") + // MCC: rooming and boarding houses
		tlv("53", "360") + // IDR
		tlv("54", amount.Truncate(0).String()) +
		tlv("58", "ID") +
		tlv("59", merchantName) +
		tlv("60", merchantCity) +
		tlv("62", tlv("01", reference))
	p += "6304"
	return p + fmt.Sprintf("%04X", crc16(p))
}

func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

// crc16 is CRC-16/CCITT-FALSE as required by EMVCo for QR payloads.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
