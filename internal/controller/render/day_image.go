package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 720
	headerHeight     = 60
	leftLabelsWidth  = 64
	rightPadding     = 16
	hourHeight       = 56.0
	minBlockHeight   = 10.0
	blockRadius      = 6.0
	shadowOffset     = 2.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultStartHour = 9
	defaultEndHour   = 18
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{60, 64, 70, 255}
	hourLabelColor = color.RGBA{110, 115, 120, 220}
	hourLineColor  = color.NRGBA{190, 190, 190, 255}
	offHoursColor  = color.NRGBA{225, 225, 225, 255}
	windowColor    = color.NRGBA{255, 255, 255, 255}
	freeSlotColor  = color.NRGBA{133, 193, 85, 70}
	shadowColor    = color.RGBA{0, 0, 0, 20}
	blockTextColor = color.RGBA{20, 24, 28, 230}

	statusColors = map[model.BookingStatus]color.Color{
		model.BookingStatusScheduled: color.RGBA{120, 170, 230, 230},
		model.BookingStatusConfirmed: color.RGBA{90, 150, 220, 240},
		model.BookingStatusCompleted: color.RGBA{133, 193, 85, 230},
		model.BookingStatusCancelled: color.RGBA{190, 190, 190, 160},
		model.BookingStatusNoShow:    color.RGBA{255, 182, 193, 230},
	}
)

// hourRange - отображаемые часы [start, end)
type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// Day - данные для картинки дня
type Day struct {
	StaffName string
	Date      model.Date
	Windows   []scheduling.Window
	Bookings  []*model.Booking
	FreeSlots []model.Slot
}

// DayImage рисует расписание мастера на день в PNG
func DayImage(day Day, loc *time.Location) ([]byte, error) {
	hours := calculateHourRange(day, loc)
	height := headerHeight + int(float64(hours.total())*hourHeight) + 8

	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayStart, _ := day.Date.Bounds(loc)
	y := func(t time.Time) float64 {
		hoursFromStart := t.In(loc).Sub(dayStart).Hours() - float64(hours.start)
		return float64(headerHeight) + hoursFromStart*hourHeight
	}

	columnX := float64(leftLabelsWidth)
	columnW := float64(imageWidth - leftLabelsWidth - rightPadding)

	drawHeader(dc, day)

	// нерабочее время серым, рабочие окна белым
	dc.SetColor(offHoursColor)
	dc.DrawRectangle(columnX, headerHeight, columnW, float64(hours.total())*hourHeight)
	dc.Fill()
	for _, w := range day.Windows {
		dc.SetColor(windowColor)
		dc.DrawRectangle(columnX, y(w.Start), columnW, y(w.End)-y(w.Start))
		dc.Fill()
	}

	drawHourLines(dc, hours, columnX, columnW)

	for _, s := range day.FreeSlots {
		dc.SetColor(freeSlotColor)
		dc.DrawRectangle(columnX+2, y(s.Start)+1, 18, y(s.End)-y(s.Start)-2)
		dc.Fill()
	}

	for _, b := range day.Bookings {
		drawBooking(dc, b, columnX+26, columnW-30, y(b.StartAt), y(b.EndAt()), loc)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// calculateHourRange определяет диапазон часов по окнам и записям
func calculateHourRange(day Day, loc *time.Location) hourRange {
	minHour, maxHour := 24, 0

	extend := func(start, end time.Time) {
		s, e := start.In(loc), end.In(loc)
		if s.Hour() < minHour {
			minHour = s.Hour()
		}
		endH := e.Hour()
		if e.Minute() > 0 {
			endH++
		}
		if !day.Date.IsZero() && model.DateOf(e, loc) != day.Date {
			endH = 24
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	for _, w := range day.Windows {
		extend(w.Start, w.End)
	}
	for _, b := range day.Bookings {
		extend(b.StartAt, b.EndAt())
	}

	if minHour == 24 {
		minHour, maxHour = defaultStartHour, defaultEndHour
	}

	start := max(minHour-hourPaddingTop, 0)
	end := min(maxHour+hourPaddingBot, 24)
	if end <= start {
		end = start + 1
	}
	return hourRange{start: start, end: end}
}

// drawHeader рисует имя мастера и дату
func drawHeader(dc *gg.Context, day Day) {
	title := formatting.FormatDate(day.Date)
	if day.StaffName != "" {
		title = day.StaffName + " - " + title
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, headerHeight/2, 0.5, 0.5)
}

// drawHourLines рисует подписи и линии часов
func drawHourLines(dc *gg.Context, hours hourRange, x, w float64) {
	dc.SetLineWidth(0.5)

	for h := 0; h <= hours.total(); h++ {
		hy := float64(headerHeight) + float64(h)*hourHeight

		dc.SetColor(hourLineColor)
		dc.DrawLine(x, hy, x+w, hy)
		dc.Stroke()

		dc.SetColor(hourLabelColor)
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+h), x-8, hy, 1, 0.5)
	}
}

// drawBooking рисует одну запись
func drawBooking(dc *gg.Context, b *model.Booking, x, w, top, bottom float64, loc *time.Location) {
	height := bottom - top
	if height < minBlockHeight {
		height = minBlockHeight
	}

	fill, ok := statusColors[b.Status]
	if !ok {
		fill = color.RGBA{220, 220, 220, 200}
	}

	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, top+2+shadowOffset, w, height-4, blockRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, top+2, w, height-4, blockRadius)
	dc.Fill()

	display := formatting.GetBookingStatusDisplay(b.Status)
	label := fmt.Sprintf("%s  %s", formatting.FormatTimeRange(b.StartAt.In(loc), b.EndAt().In(loc)), display.Text)
	if b.Notes != "" {
		label += "  " + b.Notes
	}

	dc.SetColor(blockTextColor)
	dc.DrawStringAnchored(label, x+8, top+2+(height-4)/2, 0, 0.5)
}
