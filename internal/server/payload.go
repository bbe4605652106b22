package server

import (
	"math"
	"strconv"
	"time"

	"stocklens/internal/analytics"
)

// nullableFloat marshals NaN as JSON null. Analytics series carry NaN for
// undefined leading values, which encoding/json rejects outright.
type nullableFloat float64

func (f nullableFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func nullableSlice(values []float64) []nullableFloat {
	out := make([]nullableFloat, len(values))
	for i, v := range values {
		out[i] = nullableFloat(v)
	}
	return out
}

type descriptivePayload struct {
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	Rows       int           `json:"rows"`
	CloseMin   nullableFloat `json:"close_min"`
	CloseMax   nullableFloat `json:"close_max"`
	CloseMean  nullableFloat `json:"close_mean"`
	CloseStd   nullableFloat `json:"close_std"`
	LowMin     nullableFloat `json:"low_min"`
	HighMax    nullableFloat `json:"high_max"`
	VolumeMean nullableFloat `json:"volume_mean"`
}

type performancePayload struct {
	TotalReturn          nullableFloat   `json:"total_return"`
	AnnualizedReturn     nullableFloat   `json:"annualized_return"`
	AnnualizedVolatility nullableFloat   `json:"annualized_volatility"`
	Dates                []time.Time     `json:"dates"`
	Cumulative           []nullableFloat `json:"cumulative_returns"`
}

type technicalPayload struct {
	CurrentClose nullableFloat         `json:"current_close"`
	CurrentMA    map[int]nullableFloat `json:"current_ma"`
	RSIWindow    int                   `json:"rsi_window"`
	CurrentRSI   nullableFloat         `json:"current_rsi"`
	Signal       string                `json:"signal"`
}

type riskPayload struct {
	VaR           nullableFloat `json:"value_at_risk"`
	VaRConfidence float64       `json:"var_confidence"`
	MaxDrawdown   nullableFloat `json:"max_drawdown"`
	Sharpe        *float64      `json:"sharpe,omitempty"`
	SharpeDefined bool          `json:"sharpe_defined"`
}

type monthPayload struct {
	Year  int           `json:"year"`
	Month string        `json:"month"`
	Mean  nullableFloat `json:"mean"`
	Std   nullableFloat `json:"std"`
	Count int           `json:"count"`
}

type timeSeriesPayload struct {
	BestMonth  string         `json:"best_month"`
	BestMean   nullableFloat  `json:"best_mean"`
	WorstMonth string         `json:"worst_month"`
	WorstMean  nullableFloat  `json:"worst_mean"`
	Monthly    []monthPayload `json:"monthly"`
}

type volatilityPayload struct {
	Window         int             `json:"window"`
	Current        nullableFloat   `json:"current"`
	Average        nullableFloat   `json:"average"`
	HighThreshold  nullableFloat   `json:"high_threshold"`
	ClusterDays    int             `json:"cluster_days"`
	Lag1Autocorr   nullableFloat   `json:"lag1_autocorrelation"`
	HighVolatility bool            `json:"high_volatility"`
	Dates          []time.Time     `json:"dates"`
	Rolling        []nullableFloat `json:"rolling"`
}

type crossoverPayload struct {
	Date    string        `json:"date"`
	Type    string        `json:"type"`
	ShortMA nullableFloat `json:"short_ma"`
	LongMA  nullableFloat `json:"long_ma"`
}

type predictivePayload struct {
	ShortWindow   int                `json:"short_window"`
	LongWindow    int                `json:"long_window"`
	Trend         string             `json:"trend"`
	CurrentSignal string             `json:"current_signal,omitempty"`
	Crossovers    []crossoverPayload `json:"crossovers"`
}

type strategyPayload struct {
	ShortWindow    int           `json:"short_window"`
	LongWindow     int           `json:"long_window"`
	StrategyReturn nullableFloat `json:"strategy_return"`
	BuyHoldReturn  nullableFloat `json:"buy_hold_return"`
	Outperformance nullableFloat `json:"outperformance"`
	StrategyBeats  bool          `json:"strategy_beats"`
	DaysInMarket   int           `json:"days_in_market"`
	TradingDays    int           `json:"trading_days"`
}

type sentimentPayload struct {
	AverageVolume     nullableFloat `json:"average_volume"`
	CurrentVolume     nullableFloat `json:"current_volume"`
	VolumeRatio       nullableFloat `json:"volume_ratio"`
	HighVolumeReturn  nullableFloat `json:"high_volume_return"`
	UpDownVolumeRatio nullableFloat `json:"up_down_volume_ratio"`
	Signal            string        `json:"signal"`
}

type regimePayload struct {
	Window       int           `json:"window"`
	CurrentClose nullableFloat `json:"current_close"`
	CurrentSMA   nullableFloat `json:"current_sma"`
	Bull         bool          `json:"bull"`
	BullPct      nullableFloat `json:"bull_pct"`
	BearPct      nullableFloat `json:"bear_pct"`
}

type correlationPayload struct {
	ReturnVolumeChange nullableFloat `json:"return_volume_change"`
	ReturnVolumeLevel  nullableFloat `json:"return_volume_level"`
	ReturnAutocorr     nullableFloat `json:"return_autocorrelation"`
	VolumeAutocorr     nullableFloat `json:"volume_autocorrelation"`
	Strong             bool          `json:"strong"`
}

// modulePayload converts one module's result to its JSON view. The second
// return is false for unknown module names.
func modulePayload(module string, res *analytics.Results) (interface{}, bool) {
	switch module {
	case analytics.ModuleDescriptive:
		d := res.Descriptive
		return &descriptivePayload{
			StartDate:  d.StartDate.Format("2006-01-02"),
			EndDate:    d.EndDate.Format("2006-01-02"),
			Rows:       d.Rows,
			CloseMin:   nullableFloat(d.CloseMin),
			CloseMax:   nullableFloat(d.CloseMax),
			CloseMean:  nullableFloat(d.CloseMean),
			CloseStd:   nullableFloat(d.CloseStd),
			LowMin:     nullableFloat(d.LowMin),
			HighMax:    nullableFloat(d.HighMax),
			VolumeMean: nullableFloat(d.VolumeMean),
		}, true
	case analytics.ModulePerformance:
		p := res.Performance
		return &performancePayload{
			TotalReturn:          nullableFloat(p.TotalReturn),
			AnnualizedReturn:     nullableFloat(p.AnnualizedReturn),
			AnnualizedVolatility: nullableFloat(p.AnnualizedVolatility),
			Dates:                p.CumulativeDates,
			Cumulative:           nullableSlice(p.CumulativeReturns),
		}, true
	case analytics.ModuleTechnical:
		t := res.Technical
		currentMA := make(map[int]nullableFloat, len(t.CurrentMA))
		for w, v := range t.CurrentMA {
			currentMA[w] = nullableFloat(v)
		}
		return &technicalPayload{
			CurrentClose: nullableFloat(t.CurrentClose),
			CurrentMA:    currentMA,
			RSIWindow:    t.RSIWindow,
			CurrentRSI:   nullableFloat(t.CurrentRSI),
			Signal:       string(t.Signal),
		}, true
	case analytics.ModuleRisk:
		r := res.Risk
		p := &riskPayload{
			VaR:           nullableFloat(r.VaR),
			VaRConfidence: r.VaRConfidence,
			MaxDrawdown:   nullableFloat(r.MaxDrawdown),
			SharpeDefined: r.SharpeDefined,
		}
		if r.SharpeDefined {
			sharpe := r.Sharpe
			p.Sharpe = &sharpe
		}
		return p, true
	case analytics.ModuleTimeSeries:
		ts := res.TimeSeries
		monthly := make([]monthPayload, len(ts.Monthly))
		for i, m := range ts.Monthly {
			monthly[i] = monthPayload{
				Year:  m.Year,
				Month: m.Month.String(),
				Mean:  nullableFloat(m.Mean),
				Std:   nullableFloat(m.Std),
				Count: m.Count,
			}
		}
		return &timeSeriesPayload{
			BestMonth:  ts.BestMonth.String(),
			BestMean:   nullableFloat(ts.BestMean),
			WorstMonth: ts.WorstMonth.String(),
			WorstMean:  nullableFloat(ts.WorstMean),
			Monthly:    monthly,
		}, true
	case analytics.ModuleVolatility:
		v := res.Volatility
		return &volatilityPayload{
			Window:         v.Window,
			Current:        nullableFloat(v.Current),
			Average:        nullableFloat(v.Average),
			HighThreshold:  nullableFloat(v.HighThreshold),
			ClusterDays:    len(v.ClusterDates),
			Lag1Autocorr:   nullableFloat(v.Lag1Autocorr),
			HighVolatility: v.HighVolatility,
			Dates:          v.Dates,
			Rolling:        nullableSlice(v.Rolling),
		}, true
	case analytics.ModulePredictive:
		p := res.Predictive
		crossovers := make([]crossoverPayload, len(p.Crossovers))
		for i, c := range p.Crossovers {
			crossovers[i] = crossoverPayload{
				Date:    c.Date.Format("2006-01-02"),
				Type:    string(c.Type),
				ShortMA: nullableFloat(c.ShortMA),
				LongMA:  nullableFloat(c.LongMA),
			}
		}
		return &predictivePayload{
			ShortWindow:   p.ShortWindow,
			LongWindow:    p.LongWindow,
			Trend:         string(p.Trend),
			CurrentSignal: string(p.CurrentSignal),
			Crossovers:    crossovers,
		}, true
	case analytics.ModuleStrategy:
		st := res.Strategy
		return &strategyPayload{
			ShortWindow:    st.ShortWindow,
			LongWindow:     st.LongWindow,
			StrategyReturn: nullableFloat(st.StrategyReturn),
			BuyHoldReturn:  nullableFloat(st.BuyHoldReturn),
			Outperformance: nullableFloat(st.Outperformance),
			StrategyBeats:  st.StrategyBeats,
			DaysInMarket:   st.DaysInMarket,
			TradingDays:    st.TradingDays,
		}, true
	case analytics.ModuleSentiment:
		s := res.Sentiment
		return &sentimentPayload{
			AverageVolume:     nullableFloat(s.AverageVolume),
			CurrentVolume:     nullableFloat(s.CurrentVolume),
			VolumeRatio:       nullableFloat(s.VolumeRatio),
			HighVolumeReturn:  nullableFloat(s.HighVolumeReturn),
			UpDownVolumeRatio: nullableFloat(s.UpDownVolumeRatio),
			Signal:            string(s.Signal),
		}, true
	case analytics.ModuleRegime:
		r := res.Regime
		return &regimePayload{
			Window:       r.Window,
			CurrentClose: nullableFloat(r.CurrentClose),
			CurrentSMA:   nullableFloat(r.CurrentSMA),
			Bull:         r.Bull,
			BullPct:      nullableFloat(r.BullPct),
			BearPct:      nullableFloat(r.BearPct),
		}, true
	case analytics.ModuleCorrelation:
		c := res.Correlation
		return &correlationPayload{
			ReturnVolumeChange: nullableFloat(c.ReturnVolumeChange),
			ReturnVolumeLevel:  nullableFloat(c.ReturnVolumeLevel),
			ReturnAutocorr:     nullableFloat(c.ReturnAutocorr),
			VolumeAutocorr:     nullableFloat(c.VolumeAutocorr),
			Strong:             c.Strong,
		}, true
	}
	return nil, false
}
