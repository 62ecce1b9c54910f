package scrape

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak.dev/arrivals/fetch"
	"durak.dev/arrivals/model"
)

func adapterForHTML(html string) *Adapter {
	adapter := NewAdapter("https://example.com/StationDetail?dkod=%s")
	adapter.Fetcher = fetch.Func(func(ctx context.Context, url string, headers map[string]string, options fetch.Options) ([]byte, error) {
		return []byte(html), nil
	})
	adapter.TimeNow = func() time.Time {
		return time.Date(2024, 3, 15, 22, 50, 0, 0, time.UTC)
	}
	return adapter
}

func TestLineListExtraction(t *testing.T) {
	adapter := adapterForHTML(`<html>
<head><title>İETT | AVCILAR KAMPÜS</title></head>
<body>
<div class="lines">
  <div class="line-item"><span>142</span><p>AVCILAR (23:00) 2 dk</p></div>
  <div class="line-item"><span>76D</span><p>TAKSIM (23:15) 25 dk</p></div>
  <div class="line-item"><span>not-a-route</span><p>JUNK (23:00) 2 dk</p></div>
</div>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	assert.Equal(t, "AVCILAR KAMPÜS", lookup.StationName)
	require.Len(t, lookup.Records, 2)

	assert.Equal(t, "142", lookup.Records[0].Line)
	assert.Equal(t, "AVCILAR", lookup.Records[0].Destination)
	assert.Equal(t, 2, lookup.Records[0].ETAMinutes)
	assert.Equal(t, "23:00", lookup.Records[0].ClockTime)

	assert.Equal(t, "76D", lookup.Records[1].Line)
	assert.Equal(t, 25, lookup.Records[1].ETAMinutes)
}

func TestScriptJSONExtraction(t *testing.T) {
	adapter := adapterForHTML(`<html><body>
<script>
var busData = [{"hat": "76D", "direction": "Taksim", "minutes": 4},
               {"hat": "142", "direction": "Avcılar", "minutes": 9}];
</script>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	require.Len(t, lookup.Records, 2)
	assert.Equal(t, "76D", lookup.Records[0].Line)
	assert.Equal(t, "Taksim", lookup.Records[0].Destination)
	assert.Equal(t, 4, lookup.Records[0].ETAMinutes)
}

func TestScriptJSONObjectWithNestedList(t *testing.T) {
	adapter := adapterForHTML(`<html><body>
<script>
stationData = {"stop": "151434", "items": [{"line": "400A", "minutes": 6}]};
</script>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	require.Len(t, lookup.Records, 1)
	assert.Equal(t, "400A", lookup.Records[0].Line)
	assert.Equal(t, 6, lookup.Records[0].ETAMinutes)
}

func TestLooseScriptExtraction(t *testing.T) {
	adapter := adapterForHTML(`<html><body>
<script>
render("142"); eta("3 dk"); render("76D"); eta("7 dk");
</script>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	require.Len(t, lookup.Records, 2)
	assert.Equal(t, "142", lookup.Records[0].Line)
	assert.Equal(t, 3, lookup.Records[0].ETAMinutes)
	assert.Equal(t, "76D", lookup.Records[1].Line)
	assert.Equal(t, 7, lookup.Records[1].ETAMinutes)
}

func TestLooseScriptCapsPairs(t *testing.T) {
	var body string
	for i := 0; i < 8; i++ {
		body += fmt.Sprintf(`r("%d0"); m("%d dk");`+"\n", i+10, i+2)
	}
	adapter := adapterForHTML("<html><body><script>" + body + "</script></body></html>")

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)
	assert.Len(t, lookup.Records, 5)
}

func TestTableExtraction(t *testing.T) {
	adapter := adapterForHTML(`<html><body>
<table>
  <tr><th>Hat</th><th>Süre</th></tr>
  <tr><td>34</td><td>5 dk</td></tr>
  <tr><td>76D</td><td>12 dk</td></tr>
</table>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	require.Len(t, lookup.Records, 2)
	assert.Equal(t, "34", lookup.Records[0].Line)
	assert.Equal(t, 5, lookup.Records[0].ETAMinutes)
	assert.Equal(t, model.LineDirection("34"), lookup.Records[0].Destination)
}

func TestDivExtraction(t *testing.T) {
	adapter := adapterForHTML(`<html><body>
<div class="bus-arrival">400A Bahçeşehir 8 dk</div>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	require.Len(t, lookup.Records, 1)
	assert.Equal(t, "400A", lookup.Records[0].Line)
	assert.Equal(t, 8, lookup.Records[0].ETAMinutes)
}

func TestLayerPrecedence(t *testing.T) {
	// Structured markup wins over script data on the same page.
	adapter := adapterForHTML(`<html><body>
<div class="line-item"><span>142</span><p>AVCILAR (23:00) 2 dk</p></div>
<script>var busData = [{"hat": "99", "minutes": 1}];</script>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)

	require.Len(t, lookup.Records, 1)
	assert.Equal(t, "142", lookup.Records[0].Line)
}

func TestNoArrivalContent(t *testing.T) {
	adapter := adapterForHTML(`<html><body><p>Sayfa bulunamadı</p></body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)
	assert.Empty(t, lookup.Records)
}

func TestFetchErrorPropagates(t *testing.T) {
	adapter := NewAdapter("https://example.com/StationDetail?dkod=%s")
	adapter.Fetcher = fetch.Func(func(ctx context.Context, url string, headers map[string]string, options fetch.Options) ([]byte, error) {
		return nil, fmt.Errorf("status 403")
	})

	_, err := adapter.Resolve(context.Background(), "151434")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching stop page")
}

func TestStationNameFromH1(t *testing.T) {
	adapter := adapterForHTML(`<html>
<head><title>iett</title></head>
<body><h1>BÜYÜK DURAK ADI</h1>
<div class="line-item"><span>142</span><p>AVCILAR (23:00) 2 dk</p></div>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)
	assert.Equal(t, "BÜYÜK DURAK ADI", lookup.StationName)
}

func TestStationNameFromMeta(t *testing.T) {
	adapter := adapterForHTML(`<html>
<head><title>x</title>
<meta name="description" content="Avcılar durak bilgileri"></head>
<body>
<div class="line-item"><span>142</span><p>AVCILAR (23:00) 2 dk</p></div>
</body></html>`)

	lookup, err := adapter.Resolve(context.Background(), "151434")
	require.NoError(t, err)
	assert.Equal(t, "Avcılar durak bilgileri", lookup.StationName)
}
