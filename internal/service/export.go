// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/orent-go/internal/model"
)

// reservationCSVHeader is the fixed export header. Downstream consumers
// parse this file positionally; field order must not change.
const reservationCSVHeader = "ID,Property,Guest,Email,Phone,CheckIn,CheckOut,Guests,Status,Priority,TotalAmount,Currency,Created"

// ReservationsCSV serializes the given reservation rows as CSV: the fixed
// header followed by one row per reservation with every field quoted.
// The quoting is unconditional (`"v","v"`) to stay bit-for-bit compatible
// with existing consumers, which is why this does not use encoding/csv.
func ReservationsCSV(rows []model.Reservation) []byte {
	var sb strings.Builder
	sb.WriteString(reservationCSVHeader)
	sb.WriteByte('\n')

	for _, r := range rows {
		fields := []string{
			fmt.Sprintf("%d", r.ID),
			r.PropertyTitle,
			r.GuestName,
			r.GuestEmail,
			r.GuestPhone,
			r.CheckIn.Format("2006-01-02"),
			r.CheckOut.Format("2006-01-02"),
			fmt.Sprintf("%d", r.Guests),
			r.Status,
			r.Priority,
			fmt.Sprintf("%.2f", r.TotalAmount),
			r.Currency,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
			sb.WriteByte('"')
		}
		sb.WriteByte('\n')
	}

	return []byte(sb.String())
}
