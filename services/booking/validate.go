package booking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"wheelstrust/models"
	"wheelstrust/utils"
)

type bookingFields struct {
	services []models.BookingLineItem
	date     time.Time
	time     string
	total    float64
	notes    string
}

// validateFields checks the remaining required fields in order:
// services, date, time, totalPrice.
func validateFields(in models.BookingInput) (bookingFields, error) {
	var f bookingFields

	if len(in.Services) == 0 {
		return f, utils.MissingField("services")
	}
	var sum float64
	f.services = make([]models.BookingLineItem, 0, len(in.Services))
	for i, item := range in.Services {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return f, utils.InvalidField("services", fmt.Sprintf("services[%d].name is required", i))
		}
		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return f, utils.InvalidField("services", fmt.Sprintf("services[%d].price must be a non-negative number", i))
		}
		sum += item.Price
		f.services = append(f.services, item)
	}

	if strings.TrimSpace(in.Date) == "" {
		return f, utils.MissingField("date")
	}
	date, err := models.ParseCalendarDate(in.Date)
	if err != nil {
		return f, utils.InvalidField("date", err.Error())
	}
	f.date = date

	f.time = strings.TrimSpace(in.Time)
	if f.time == "" {
		return f, utils.MissingField("time")
	}
	if !models.IsSlotLabel(f.time) {
		return f, utils.InvalidField("time", fmt.Sprintf("time must be one of %s", strings.Join(models.SlotLabels, ", ")))
	}

	if in.TotalPrice == nil {
		return f, utils.MissingField("totalPrice")
	}
	if !samePrice(*in.TotalPrice, sum) {
		return f, utils.InvalidField("totalPrice", fmt.Sprintf("totalPrice %.2f does not match the sum of service prices %.2f", *in.TotalPrice, sum))
	}
	f.total = *in.TotalPrice
	f.notes = strings.TrimSpace(in.Notes)
	return f, nil
}

// samePrice compares two amounts to the cent.
func samePrice(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
