package sim

import (
	"time"

	"github.com/fueltrace/fleetsim/internal/model"
)

// seedFleet builds the fixed starting fleet: six trucks parked around the
// Muscat operating area, compartments full, telemetry nominal.
func seedFleet() []*model.Truck {
	now := time.Now().UTC()

	type comp struct {
		fuel string
		cap  float64
	}
	mk := func(id, name, driver, client string, lat, lng float64, comps []comp) *model.Truck {
		t := &model.Truck{
			ID:        id,
			Name:      name,
			Driver:    driver,
			Client:    client,
			Status:    model.StatusIdle,
			Position:  model.LatLng{Lat: lat, Lng: lng},
			ValveOpen: false,
			Online:    true,
		}
		for i, c := range comps {
			t.Compartments = append(t.Compartments, model.Compartment{
				ID:             string(rune('A' + i)),
				FuelType:       c.fuel,
				CapacityLiters: c.cap,
				CurrentLevel:   c.cap,
			})
		}
		t.AppendLog(now, "Truck online, awaiting assignment")
		return t
	}

	return []*model.Truck{
		mk("TRK-001", "Al Fahal 1", "Said Al Balushi", "Rusayl Manufacturing Co.",
			23.6340, 58.5200, []comp{{"Diesel", 9000}, {"Diesel", 7000}, {"Petrol 95", 5000}}),
		mk("TRK-002", "Al Fahal 2", "Hamed Al Wahaibi", "Gulf Retail Fuels",
			23.6330, 58.5215, []comp{{"Diesel", 9000}, {"Petrol 95", 6000}, {"Petrol 91", 6000}, {"Kerosene", 4000}}),
		mk("TRK-003", "Ghala 1", "Yousuf Al Raisi", "Muscat Aviation Services",
			23.5795, 58.3765, []comp{{"Jet A-1", 10000}, {"Jet A-1", 8000}, {"Diesel", 5000}}),
		mk("TRK-004", "Ghala 2", "Nasser Al Habsi", "Gulf Retail Fuels",
			23.5785, 58.3780, []comp{{"Petrol 95", 8000}, {"Petrol 91", 8000}, {"Diesel", 6000}}),
		mk("TRK-005", "Seeb Runner", "Khalid Al Amri", "Muscat Aviation Services",
			23.5930, 58.2850, []comp{{"Jet A-1", 9000}, {"Diesel", 7000}, {"Diesel", 5000}, {"Petrol 95", 4000}}),
		mk("TRK-006", "Rusayl Runner", "Majid Al Lawati", "Rusayl Manufacturing Co.",
			23.5330, 58.1960, []comp{{"Diesel", 8000}, {"Diesel", 8000}, {"Petrol 91", 5000}}),
	}
}
