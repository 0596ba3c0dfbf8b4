package taxonomy

// DefaultPrograms returns a fresh copy of the built-in program table.
func DefaultPrograms() Programs {
	return defaultPrograms.Clone()
}

var defaultPrograms = Programs{
	{
		Name: "Technical Support",
		Reasons: []Reason{
			{
				Name: "Device Issue",
				Prob: 0.5,
				SubReasons: []SubReason{
					{Name: "Phone", Prob: 0.55, DurationMean: 300, DurationStd: 60},
					{Name: "Laptop", Prob: 0.10, DurationMean: 600, DurationStd: 90},
					{Name: "TV", Prob: 0.35, DurationMean: 700, DurationStd: 120},
				},
			},
			{
				Name: "Login Issue",
				Prob: 0.4,
				SubReasons: []SubReason{
					{Name: "Forgot Password", Prob: 0.8, DurationMean: 180, DurationStd: 40},
					{Name: "Account Expired", Prob: 0.2, DurationMean: 250, DurationStd: 60},
				},
			},
			{
				Name: "Other Issue",
				Prob: 0.1,
				SubReasons: []SubReason{
					{Name: "Billing Questions", Prob: 0.75, DurationMean: 200, DurationStd: 45},
					{Name: "General Inquiry", Prob: 0.25, DurationMean: 120, DurationStd: 20},
				},
			},
		},
	},
	{
		Name: "Claim Administration",
		Reasons: []Reason{
			{
				Name: "New Claim",
				Prob: 0.4,
				SubReasons: []SubReason{
					{Name: "Medical", Prob: 0.5, DurationMean: 900, DurationStd: 60},
					{Name: "Auto", Prob: 0.3, DurationMean: 720, DurationStd: 35},
					{Name: "Other", Prob: 0.2, DurationMean: 600, DurationStd: 120},
				},
			},
			{
				Name: "Claim Status",
				Prob: 0.6,
				SubReasons: []SubReason{
					{Name: "Pending", Prob: 0.5, DurationMean: 480, DurationStd: 120},
					{Name: "Approved", Prob: 0.3, DurationMean: 360, DurationStd: 120},
					{Name: "Denied", Prob: 0.2, DurationMean: 720, DurationStd: 240},
				},
			},
		},
	},
	{
		Name: "Financial Planning",
		Reasons: []Reason{
			{
				Name: "Budget Help",
				Prob: 0.5,
				SubReasons: []SubReason{
					{Name: "Monthly Plan", Prob: 0.7, DurationMean: 900, DurationStd: 200},
					{Name: "Annual Plan", Prob: 0.3, DurationMean: 1200, DurationStd: 300},
				},
			},
			{
				Name: "Investment Advice",
				Prob: 0.5,
				SubReasons: []SubReason{
					{Name: "Retirement", Prob: 0.5, DurationMean: 1800, DurationStd: 600},
					{Name: "Stocks", Prob: 0.5, DurationMean: 1500, DurationStd: 720},
				},
			},
		},
	},
}
