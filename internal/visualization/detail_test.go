package visualization

import (
	"testing"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/stretchr/testify/assert"
)

func validTimeSeries() TimeSeries {
	return TimeSeries{
		Strategy:         timeseries.StrategySum,
		InitialScope:     calendar.ScopeWeek,
		SelectableScopes: calendar.DefaultSelectableScopes(),
		ScrollToEnd:      true,
	}
}

func TestViewValidate(t *testing.T) {
	noScopes := validTimeSeries()
	noScopes.SelectableScopes = nil

	notSelectable := validTimeSeries()
	notSelectable.InitialScope = calendar.ScopeSixMonths

	badStrategy := validTimeSeries()
	badStrategy.Strategy = timeseries.Strategy(9)

	tests := []struct {
		name    string
		view    View
		wantErr bool
	}{
		{name: "valid time series", view: View{Name: "events", Detail: validTimeSeries()}},
		{name: "valid chart", view: View{Name: "chart", Detail: Chart{ScrollToEnd: true}}},
		{name: "valid kpi", view: View{Name: "kpi", Detail: TrendingKPI{Scope: calendar.ScopeMonth}}},
		{name: "valid list", view: View{Name: "list", Detail: List{VisibleValuesLimit: 10}}},
		{name: "valid distribution", view: View{Name: "dist", Detail: Distribution{EstimateVisible: true}}},
		{name: "negative curve limit", view: View{Name: "dist", Detail: Distribution{MaxCurvePoints: -1}}, wantErr: true},
		{name: "missing name", view: View{Detail: Chart{}}, wantErr: true},
		{name: "missing detail", view: View{Name: "x"}, wantErr: true},
		{name: "no selectable scopes", view: View{Name: "x", Detail: noScopes}, wantErr: true},
		{name: "initial scope not selectable", view: View{Name: "x", Detail: notSelectable}, wantErr: true},
		{name: "bad strategy", view: View{Name: "x", Detail: badStrategy}, wantErr: true},
		{name: "bad kpi scope", view: View{Name: "x", Detail: TrendingKPI{Scope: calendar.Scope(42)}}, wantErr: true},
		{name: "zero list limit", view: View{Name: "x", Detail: List{}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.view.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDetail)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	assert.Equal(t, KindTimeSeries, validTimeSeries().Kind())
	assert.Equal(t, KindChart, Chart{}.Kind())
	assert.Equal(t, KindTrendingKPI, TrendingKPI{}.Kind())
	assert.Equal(t, KindList, List{}.Kind())
	assert.Equal(t, KindDistribution, Distribution{}.Kind())
}
