package metadata

import (
	"em27-metadata/internal/models"
	"fmt"
	"time"
)

// validate runs every integrity check once and in a fixed order: id uniqueness, references from sensors,
// references from campaigns, then the soundness of every sensor series.
func validate(locations []models.Location, sensors []models.Sensor, campaigns []models.Campaign) []Violation {
	var violations []Violation

	locationIDs := make([]string, len(locations))
	for idx, l := range locations {
		locationIDs[idx] = l.LocationID
	}
	sensorIDs := make([]string, len(sensors))
	for idx, s := range sensors {
		sensorIDs[idx] = s.SensorID
	}
	campaignIDs := make([]string, len(campaigns))
	for idx, c := range campaigns {
		campaignIDs[idx] = c.CampaignID
	}

	violations = append(violations, duplicates("location", locationIDs)...)
	violations = append(violations, duplicates("sensor", sensorIDs)...)
	violations = append(violations, duplicates("campaign", campaignIDs)...)

	knownLocations := toSet(locationIDs)
	knownSensors := toSet(sensorIDs)

	for _, sensor := range sensors {
		for idx, setup := range sensor.Setups {
			if _, ok := knownLocations[setup.Value.LocationID]; !ok {
				violations = append(violations, unknownReference(sensor.SensorID, "location", setup.Value.LocationID,
					fmt.Sprintf("sensor %q setups[%d]", sensor.SensorID, idx)))
			}
			if profile := setup.Value.AtmosphericProfileLocationID; profile != nil {
				if _, ok := knownLocations[*profile]; !ok {
					violations = append(violations, unknownReference(sensor.SensorID, "atmospheric profile location", *profile,
						fmt.Sprintf("sensor %q setups[%d]", sensor.SensorID, idx)))
				}
			}
		}
	}

	for _, campaign := range campaigns {
		if !campaign.Interval().IsValid() {
			violations = append(violations, Violation{
				Kind:    ViolationInvalidSeries,
				IDs:     []string{campaign.CampaignID},
				Message: fmt.Sprintf("campaign %q: from_datetime %s is after to_datetime %s", campaign.CampaignID,
					campaign.FromDateTime.UTC().Format(time.RFC3339), campaign.ToDateTime.UTC().Format(time.RFC3339)),
			})
		}
		for _, sensorID := range campaign.SensorIDs {
			if _, ok := knownSensors[sensorID]; !ok {
				violations = append(violations, unknownReference(campaign.CampaignID, "sensor", sensorID,
					fmt.Sprintf("campaign %q", campaign.CampaignID)))
			}
		}
		for _, locationID := range campaign.LocationIDs {
			if _, ok := knownLocations[locationID]; !ok {
				violations = append(violations, unknownReference(campaign.CampaignID, "location", locationID,
					fmt.Sprintf("campaign %q", campaign.CampaignID)))
			}
		}
	}

	for idx := range sensors {
		sensor := &sensors[idx]
		checks := []struct {
			kind PropertyKind
			err  error
		}{
			{KindSetup, sensor.SetupSeries().Validate(true)},
			{KindUTCOffset, utcOffsetProperty.series(sensor).Validate(true)},
			{KindPressureDataSource, pressureDataSourceProperty.series(sensor).Validate(true)},
			{KindCalibrationFactors, calibrationProperty.series(sensor).Validate(true)},
		}
		for _, check := range checks {
			if check.err == nil {
				continue
			}
			violations = append(violations, Violation{
				Kind:    ViolationInvalidSeries,
				IDs:     []string{sensor.SensorID},
				Message: fmt.Sprintf("sensor %q %s: %v", sensor.SensorID, check.kind, check.err),
			})
		}
	}

	return violations
}

func duplicates(entity string, ids []string) []Violation {
	var out []Violation
	counts := map[string]int{}
	for _, id := range ids {
		counts[id]++
		if counts[id] == 2 {
			out = append(out, Violation{
				Kind:    ViolationDuplicateID,
				IDs:     []string{id},
				Message: fmt.Sprintf("%s id %q is not unique", entity, id),
			})
		}
	}
	return out
}

func unknownReference(ownerID, entity, id, where string) Violation {
	return Violation{
		Kind:    ViolationUnknownReference,
		IDs:     []string{ownerID, id},
		Message: fmt.Sprintf("%s references unknown %s id %q", where, entity, id),
	}
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
