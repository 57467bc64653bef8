package models

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (s Setup) Clone() Setup {
	s.PressureDataSource = cloneString(s.PressureDataSource)
	s.AtmosphericProfileLocationID = cloneString(s.AtmosphericProfileLocationID)
	return s
}

func (g *GasCalibration) Clone() *GasCalibration {
	if g == nil {
		return nil
	}
	return &GasCalibration{
		Factors: append([]float64(nil), g.Factors...),
		Scheme:  cloneString(g.Scheme),
		Note:    cloneString(g.Note),
	}
}

func (c CalibrationFactors) Clone() CalibrationFactors {
	c.XCO2 = c.XCO2.Clone()
	c.XCH4 = c.XCH4.Clone()
	c.XCO = c.XCO.Clone()
	return c
}

// Clone returns a deep copy that shares no memory with s.
func (s Sensor) Clone() Sensor {
	out := s
	out.Setups = make([]SetupRecord, len(s.Setups))
	for idx, r := range s.Setups {
		r.Value = r.Value.Clone()
		out.Setups[idx] = r
	}
	out.UTCOffsets = append([]UTCOffsetRecord(nil), s.UTCOffsets...)
	out.PressureDataSources = append([]PressureDataSourceRecord(nil), s.PressureDataSources...)
	out.CalibrationFactors = make([]CalibrationRecord, len(s.CalibrationFactors))
	for idx, r := range s.CalibrationFactors {
		r.Value = r.Value.Clone()
		out.CalibrationFactors[idx] = r
	}
	return out
}

func (c Campaign) Clone() Campaign {
	c.SensorIDs = append(StringList(nil), c.SensorIDs...)
	c.LocationIDs = append(StringList(nil), c.LocationIDs...)
	return c
}
