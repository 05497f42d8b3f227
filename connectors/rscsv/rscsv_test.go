package rscsv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rs-flow/connectors/rscsv"
	"rs-flow/domain/rs"
)

var schema = rs.Schema{LatestYear: 2024, UnitCutoff: 2023}

func writeFixture(t *testing.T, base string, year int, name, content string) {
	t.Helper()
	dir := filepath.Join(base, rs.YearDir(year))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	// Real extracts ship with a UTF-8 BOM.
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), append([]byte("\ufeff"), []byte(content)...), 0o644))
}

func newSource(t *testing.T) rscsv.Source {
	t.Helper()
	return rscsv.Source{BasePath: t.TempDir(), Schema: schema}
}

func TestLoadBudget_MillionUnits_BOMAndRaggedRows(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2023, "2-1_2023_予算・執行_サマリ.csv",
		"予算事業ID,事業名,府省庁,予算年度,当初予算(合計),執行額(合計),執行率\n"+
			"101,事業A,総務省,2023,10,8,0.8\n"+
			"102,事業B,総務省,2023,5.5,,\n"+
			"103,事業C,厚生労働省,2023,\"1,000\",900\n") // short row: no rate column

	records, err := src.LoadBudget(2023)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, rs.BudgetRecord{
		ProjectID: 101, ProjectName: "事業A", Ministry: "総務省", BudgetYear: 2023,
		InitialBudget: 10_000_000, Execution: 8_000_000, ExecutionRate: 0.8, HasRate: true,
	}, records[0])

	// Empty amount fields are "no data", not an error.
	assert.Equal(t, int64(5_500_000), records[1].InitialBudget)
	assert.Zero(t, records[1].Execution)
	assert.False(t, records[1].HasRate)

	// Comma grouping and the missing trailing column are tolerated.
	assert.Equal(t, int64(1_000_000_000), records[2].InitialBudget)
	assert.Equal(t, int64(900_000_000), records[2].Execution)
	assert.False(t, records[2].HasRate)
}

func TestLoadBudget_LatestYear_BaseUnitsAndFullWidthHeaders(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2024, "2-1_RS_2024_予算・執行_サマリ.csv",
		"予算事業ID,事業名,府省庁,予算年度,当初予算（合計）,執行額（合計）,執行率\n"+
			"201,事業D,経済産業省,2024,123456789,,\n"+
			"201,事業D,経済産業省,2023,,100000000,0.92\n")

	records, err := src.LoadBudget(2024)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(123_456_789), records[0].InitialBudget, "latest year amounts pass through unscaled")
	assert.Equal(t, 2024, records[0].BudgetYear)
	assert.Equal(t, int64(100_000_000), records[1].Execution)
	assert.True(t, records[1].HasRate)
	assert.Equal(t, 0.92, records[1].ExecutionRate)
}

func TestLoadBudget_MissingFileIsAnError(t *testing.T) {
	src := newSource(t)
	require.NoError(t, os.MkdirAll(filepath.Join(src.BasePath, rs.YearDir(2020)), 0o755))

	_, err := src.LoadBudget(2020)
	assert.Error(t, err)
}

func TestLoadExpenditures(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2022, "5-1_2022_支出先_支出情報.csv",
		"予算事業ID,事業名,府省庁,事業年度,支出先名,金額,契約方式等,入札者数,落札率\n"+
			"301,事業E,国土交通省,2022,株式会社X,3,一般競争契約,2,0.95\n"+
			"301,事業E,国土交通省,2022,,0.5,,,\n")

	records, err := src.LoadExpenditures(2022)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, rs.ExpenditureRecord{
		ProjectID: 301, ProjectName: "事業E", Ministry: "国土交通省", FiscalYear: 2022,
		Recipient: "株式会社X", Amount: 3_000_000, ContractType: "一般競争契約", Bidders: 2, WinningBidRate: 0.95,
	}, records[0])

	assert.Empty(t, records[1].Recipient)
	assert.Equal(t, int64(500_000), records[1].Amount)
}

func TestLoadConnections_ExpectedAbsentForEarlierYears(t *testing.T) {
	src := newSource(t)
	// No 5-2 file on disk for 2022 and none expected.
	records, err := src.LoadConnections(2022)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadConnections_LatestYear(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2024, "5-2_RS_2024_支出先_支出ブロックのつながり.csv",
		"予算事業ID,事業名,府省庁,事業年度,支出元の支出先ブロック,支出元の支出先ブロック名,担当組織からの支出,支出先の支出先ブロック,支出先の支出先ブロック名\n"+
			"401,事業F,環境省,2024,,,true,B1,ブロック1\n")

	records, err := src.LoadConnections(2024)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].FromOrganization)
	assert.Equal(t, "B1", records[0].TargetBlock)
	assert.Equal(t, "ブロック1", records[0].TargetBlockName)
}

func TestLoadOverview_FullWidthEndYearHeader(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2021, "1-2_2021_基本情報_事業概要等.csv",
		"事業名,府省庁,事業年度,事業開始年度,事業終了（予定）年度\n"+
			"事業G,農林水産省,2021,2015,2027\n"+
			"事業H,農林水産省,2021,,\n")

	records, err := src.LoadOverview(2021)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2015, records[0].StartYear)
	assert.Equal(t, 2027, records[0].EndYear)
	assert.Zero(t, records[1].StartYear)
	assert.Zero(t, records[1].EndYear)
}

func TestLoadYear_ReadsAllCategories(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2024, "2-1_RS_2024_予算・執行_サマリ.csv",
		"予算事業ID,事業名,府省庁,予算年度,当初予算（合計）,執行額（合計）,執行率\n501,事業I,総務省,2024,100,,\n")
	writeFixture(t, src.BasePath, 2024, "5-1_RS_2024_支出先_支出情報.csv",
		"予算事業ID,事業名,府省庁,事業年度,支出先名,金額\n501,事業I,総務省,2024,株式会社Y,60\n")
	writeFixture(t, src.BasePath, 2024, "5-2_RS_2024_支出先_支出ブロックのつながり.csv",
		"予算事業ID,事業名,府省庁,事業年度,支出元の支出先ブロック,支出元の支出先ブロック名,担当組織からの支出,支出先の支出先ブロック,支出先の支出先ブロック名\n501,事業I,総務省,2024,,,true,B1,ブロック1\n")

	data, err := src.LoadYear(2024)
	require.NoError(t, err)
	assert.Len(t, data.Budget, 1)
	assert.Len(t, data.Expenditures, 1)
	assert.Len(t, data.Connections, 1)
}

func TestLoadYear_FailsWhenExpectedSourceIsMissing(t *testing.T) {
	src := newSource(t)
	writeFixture(t, src.BasePath, 2022, "2-1_2022_予算・執行_サマリ.csv",
		"予算事業ID,事業名,府省庁,予算年度,当初予算(合計),執行額(合計),執行率\n601,事業J,総務省,2022,1,,\n")
	// 5-1 is expected for every year but missing here.

	_, err := src.LoadYear(2022)
	assert.Error(t, err)
}

func TestHasYear(t *testing.T) {
	src := newSource(t)
	require.NoError(t, os.MkdirAll(filepath.Join(src.BasePath, rs.YearDir(2019)), 0o755))

	assert.True(t, src.HasYear(2019))
	assert.False(t, src.HasYear(2018))
}
