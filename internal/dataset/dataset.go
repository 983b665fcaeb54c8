package dataset

// CountriesCaption 解释线上举办年份的零值柱
const CountriesCaption = "Country data for 2020 & 2021 is not available as events were held virtually."

// Title 图表区标题
const Title = "Athens Roundtable: At a Glance (2019-2024)"

// Row 一届活动的统计数据。Countries 为 nil 表示“无数据”，与 0 不同。
type Row struct {
	Year         int    `json:"year"`
	Location     string `json:"location"`
	Participants int    `json:"participants"`
	Countries    *int   `json:"countries"`
}

// HasCountries 是否有参与国家数
func (r Row) HasCountries() bool {
	return r.Countries != nil
}

// CountriesBar 柱状图高度：无数据按 0 绘制，但原值仍为 nil
func (r Row) CountriesBar() int {
	if r.Countries == nil {
		return 0
	}
	return *r.Countries
}

func countries(n int) *int {
	return &n
}

// Rows 返回固定的历届数据，每次调用返回新切片，调用方可自由修改
func Rows() []Row {
	return []Row{
		{Year: 2019, Location: "Athens, Greece", Participants: 70, Countries: countries(18)},
		{Year: 2020, Location: "Virtual (NYC)", Participants: 1000},
		{Year: 2021, Location: "Virtual", Participants: 1700},
		{Year: 2022, Location: "Brussels, Belgium", Participants: 1100, Countries: countries(112)},
		{Year: 2023, Location: "Washington D.C., USA", Participants: 1150, Countries: countries(100)},
		{Year: 2024, Location: "Paris, France", Participants: 965, Countries: countries(108)},
	}
}

// Point 图表上的一个数据点
type Point struct {
	Year  int `json:"year"`
	Value int `json:"value"`
	// Missing 为 true 时 Value 只是绘制用的 0
	Missing bool `json:"missing,omitempty"`
}

// Series 三个图表所需的数据
type Series struct {
	Title        string  `json:"title"`
	Participants []Point `json:"participants"`
	Countries    []Point `json:"countries"`
	Caption      string  `json:"caption"`
	Locations    []Host  `json:"locations"`
	Rows         []Row   `json:"rows"`
}

// Host 主办地
type Host struct {
	Year     int    `json:"year"`
	Location string `json:"location"`
}

// BuildSeries 从固定表生成图表数据
func BuildSeries(rows []Row) Series {
	s := Series{
		Title:        Title,
		Participants: make([]Point, 0, len(rows)),
		Countries:    make([]Point, 0, len(rows)),
		Caption:      CountriesCaption,
		Locations:    make([]Host, 0, len(rows)),
		Rows:         rows,
	}
	for _, r := range rows {
		s.Participants = append(s.Participants, Point{Year: r.Year, Value: r.Participants})
		s.Countries = append(s.Countries, Point{Year: r.Year, Value: r.CountriesBar(), Missing: !r.HasCountries()})
		s.Locations = append(s.Locations, Host{Year: r.Year, Location: r.Location})
	}
	return s
}
