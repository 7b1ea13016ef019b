// Package documents renders booking documents as PDF.
package documents

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"stay-booking/models"
)

const dateLayout = "02/01/2006"

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func formatEuro(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1) + " EUR"
}

var statusLabels = map[string]string{
	models.StatusConfirmed: "Confirmée",
	models.StatusCancelled: "Annulée",
	models.StatusCompleted: "Terminée",
}

// Confirmation renders the booking confirmation for d and names the file after its reference.
func Confirmation(d *models.ReservationDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; accents in titles and cities need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Confirmation "+d.BookingReference, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("CONFIRMATION DE RÉSERVATION"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr("Référence : "+d.BookingReference))
	pdf.Ln(10)

	title, city, checkIn, checkOut := "-", "-", "-", "-"
	if d.Experience != nil {
		title = safe(d.Experience.Title, "-")
		city = safe(d.Experience.Location.Data().City, "-")
		info := d.Experience.CheckInInfo.Data()
		checkIn, checkOut = safe(info.CheckIn, "-"), safe(info.CheckOut, "-")
	}
	nights := int(d.CheckOutDate.Sub(d.CheckInDate).Hours() / 24)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Établissement : %s", title),
		fmt.Sprintf("Ville         : %s", city),
		fmt.Sprintf("Arrivée       : %s (à partir de %s)", d.CheckInDate.Format(dateLayout), checkIn),
		fmt.Sprintf("Départ        : %s (avant %s)", d.CheckOutDate.Format(dateLayout), checkOut),
		fmt.Sprintf("Nuits         : %d", nights),
		fmt.Sprintf("Chambre       : %s", safe(d.RoomType, "-")),
		fmt.Sprintf("Voyageurs     : %d", d.GuestCount),
		fmt.Sprintf("Statut        : %s", safe(statusLabels[d.Status], d.Status)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr("Total payé : "+formatEuro(d.TotalPrice)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr("Présentez cette confirmation à votre arrivée. Annulation gratuite jusqu'à 24h avant l'arrivée."), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("CONFIRMATION_%s.pdf", d.BookingReference), nil
}
