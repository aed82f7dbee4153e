package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/bluesherpa/analytics-engine/internal/types"
)

// Report generators are pure functions over (domain, run config). All output
// is canned demo content; unknown domains fall back to the Finance report.

// RunReport is the full analysis report the timed pipeline appends once the
// run completes.
func RunReport(domain string) string {
	if report, ok := runReports[domain]; ok {
		return report
	}
	return runReports["Finance"]
}

// CompletionReport is the shorter report used by the force-complete path.
func CompletionReport(domain string) string {
	if report, ok := completionReports[domain]; ok {
		return report
	}
	return completionReports["Finance"]
}

// ComposedResult is the configurable results payload for the results
// endpoint.
type ComposedResult struct {
	Content  string         `json:"content"`
	Format   string         `json:"format"`
	Config   types.RunConfig `json:"config"`
	Metadata ResultMetadata `json:"metadata"`
}

type ResultMetadata struct {
	WordCount   int    `json:"word_count"`
	Sections    int    `json:"sections"`
	Domain      string `json:"domain"`
	GeneratedAt string `json:"generated_at"`
}

// ComposeResults interpolates the session and run configuration into the
// generic results template plus a per-domain depth section.
func ComposeResults(session *types.Session, cfg types.RunConfig, generatedAt string) ComposedResult {
	domain := session.Domain
	base := fmt.Sprintf(`# BLUE SHERPA Analytics Engine

## Executive Summary
Analysis completed successfully for **%s** in the **%s** domain. The results show comprehensive insights based on your specified parameters and domain focus.

## Key Findings
• **Data Processing**: All specified metrics have been analyzed with %s depth
• **Processing Time**: Completed in %d minutes as configured
• **Validation Level**: %s cross-validation applied
• **Report Format**: Generated in %s style

## Performance Drivers
The analysis has identified key drivers influencing the results, including market trends, internal strategies, and external factors specific to the %s domain.

## Methodology
- **Analysis Depth**: %s level analysis applied
- **Cross-validation**: %s validation protocols used
- **Report Style**: %s formatting applied
- **Processing Configuration**: Optimized for %d-minute execution window

## Recommendations
Based on the %s analysis performed, the system recommends:

1. **Primary Action Items**: Review the detailed findings for domain-specific insights
2. **Secondary Considerations**: Implement suggested optimizations based on identified patterns
3. **Follow-up Analysis**: Consider deeper investigation of highlighted anomalies

> **Note**: This analysis was generated using advanced cognitive processing techniques with %s validation standards.

## Analysis Strategy Summary
- **Processing Time**: %d minutes configured
- **Report Format**: %s
- **Validation Level**: %s
- **Domain Focus**: %s analytics and insights
`,
		session.Title, domain,
		cfg.AnalyticsDepth, cfg.ProcessingTime, title(cfg.CrossValidation), cfg.ReportingStyle,
		strings.ToLower(domain),
		title(cfg.AnalyticsDepth), title(cfg.CrossValidation), title(cfg.ReportingStyle), cfg.ProcessingTime,
		cfg.AnalyticsDepth, cfg.CrossValidation,
		cfg.ProcessingTime, title(cfg.ReportingStyle), title(cfg.CrossValidation), domain)

	content := base + domainDepthSection(domain, cfg.AnalyticsDepth)
	return ComposedResult{
		Content: content,
		Format:  "markdown",
		Config:  cfg,
		Metadata: ResultMetadata{
			WordCount:   len(strings.Fields(base)),
			Sections:    6,
			Domain:      domain,
			GeneratedAt: generatedAt,
		},
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func domainDepthSection(domain, depth string) string {
	sections, ok := depthSections[domain]
	if !ok {
		sections = map[string]string{
			"basic": fmt.Sprintf(
				"\n\n## %s Analysis Overview\n- Core metrics evaluated\n- Key performance indicators measured\n- Basic trend analysis completed", domain),
			"moderate": fmt.Sprintf(
				"\n\n## %s Analytics Insights\n\n### Performance Analysis\n- Comprehensive KPI evaluation\n- Trend identification and analysis\n- Comparative benchmarking completed\n\n### Strategic Recommendations\n- Optimization opportunities identified\n- Resource allocation suggestions\n- Performance improvement roadmap", domain),
			"deep": fmt.Sprintf(
				"\n\n## Advanced %s Intelligence\n\n### Predictive Analytics\n- AI-powered forecasting models applied\n- Advanced statistical analysis performed\n- Machine learning insights generated\n- Risk assessment and scenario modeling\n\n### Strategic Optimization\n- Multi-dimensional performance optimization\n- Predictive modeling for future planning\n- Advanced benchmarking against industry standards\n- Comprehensive recommendation engine outputs", domain),
		}
	}
	if section, ok := sections[depth]; ok {
		return section
	}
	return sections["moderate"]
}

// VerificationStatus draws a cosmetic verification outcome: 70% verified,
// 20% partial, 10% failed.
func VerificationStatus() string {
	switch n := rand.Float64(); {
	case n < 0.7:
		return "verified"
	case n < 0.9:
		return "partial"
	default:
		return "failed"
	}
}

// VerificationCheck is one row of the simulated verification run.
type VerificationCheck struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
}

// VerificationResult summarizes the simulated verification of a session's
// results.
type VerificationResult struct {
	OverallStatus     string              `json:"overall_status"`
	OverallConfidence float64             `json:"overall_confidence"`
	Checks            []VerificationCheck `json:"checks"`
	Summary           string              `json:"summary"`
}

// VerifyResults runs the fixed verification check list and aggregates an
// overall status from the mean confidence.
func VerifyResults() VerificationResult {
	checks := []VerificationCheck{
		{Name: "Data Integrity Check", Status: "passed", Confidence: 0.95},
		{Name: "Statistical Validation", Status: "passed", Confidence: 0.89},
		{Name: "Cross-Reference Validation", Status: "partial", Confidence: 0.76},
		{Name: "Methodology Compliance", Status: "passed", Confidence: 0.92},
		{Name: "Result Consistency Check", Status: "passed", Confidence: 0.88},
	}
	total := 0.0
	for _, c := range checks {
		total += c.Confidence
	}
	confidence := total / float64(len(checks))

	status := "failed"
	switch {
	case confidence >= 0.90:
		status = "verified"
	case confidence >= 0.75:
		status = "partial"
	}
	return VerificationResult{
		OverallStatus:     status,
		OverallConfidence: float64(int(confidence*1000+0.5)) / 1000,
		Checks:            checks,
		Summary:           fmt.Sprintf("Verification completed with %.1f%% confidence level", confidence*100),
	}
}

var depthSections = map[string]map[string]string{
	"Finance": {
		"basic":    "\n\n## Financial Metrics Overview\n- Revenue analysis completed\n- Cost structure evaluated\n- ROI calculations performed",
		"moderate": "\n\n## Financial Analysis Deep Dive\n\n### Revenue Performance\n- Q4 revenue showed 12% growth over Q3\n- Regional variations identified across key markets\n- Customer acquisition costs optimized\n\n### Cost Analysis\n- Operational efficiency gains of 8%\n- Resource allocation improvements identified\n- Budget variance analysis completed",
		"deep":     "\n\n## Comprehensive Financial Intelligence\n\n### Advanced Revenue Modeling\n- Predictive revenue forecasting with 95% confidence intervals\n- Multi-variate analysis of growth drivers\n- Seasonal adjustment factors applied\n- Customer lifetime value optimization paths identified\n\n### Strategic Cost Optimization\n- Advanced cost-benefit analysis across all business units\n- Resource allocation efficiency scoring\n- Predictive budget modeling for next 4 quarters\n- Risk-adjusted ROI calculations with sensitivity analysis",
	},
	"Marketing": {
		"basic":    "\n\n## Marketing Metrics Overview\n- Campaign performance evaluated\n- Audience engagement measured\n- Conversion rates analyzed",
		"moderate": "\n\n## Marketing Analytics Insights\n\n### Campaign Performance\n- Multi-channel campaign effectiveness measured\n- ROI across different marketing channels calculated\n- Customer journey mapping completed\n\n### Audience Analysis\n- Demographic segmentation insights\n- Behavioral pattern identification\n- Engagement optimization recommendations",
		"deep":     "\n\n## Advanced Marketing Intelligence\n\n### Predictive Campaign Modeling\n- AI-driven campaign performance forecasting\n- Customer propensity scoring with machine learning\n- Attribution modeling across all touchpoints\n- Lifetime value prediction by segment\n\n### Advanced Audience Intelligence\n- Psychographic profiling with behavioral clustering\n- Real-time engagement optimization algorithms\n- Predictive churn analysis with intervention strategies\n- Cross-channel attribution with Markov chain modeling",
	},
}

var runReports = map[string]string{
	"Finance": `# Financial Performance Analysis Report

## Executive Summary
The analysis reveals significant growth trends across key financial metrics with notable improvements in revenue generation and cost optimization.

## Key Findings

### Revenue Performance
- **Total Revenue**: $12.4M (+18% YoY)
- **Quarterly Growth**: 22% increase from Q3 to Q4
- **Regional Distribution**:
  - North America: $6.2M (50%)
  - Europe: $3.7M (30%)
  - Asia-Pacific: $2.5M (20%)

### Cost Analysis
- **Customer Acquisition Cost (CAC)**: $450 (-15% from previous quarter)
- **Operating Expenses**: $8.1M (65% of revenue)
- **EBITDA Margin**: 35% (+5 percentage points YoY)

### Product Category Performance
| Category | Revenue | Growth | Market Share |
|----------|---------|--------|-------------|
| Enterprise | $5.8M | +25% | 47% |
| Mid-Market | $4.1M | +15% | 33% |
| SMB | $2.5M | +12% | 20% |

### Conversion Metrics
- **Lead-to-Customer Rate**: 24% (+6% improvement)
- **Average Deal Size**: $125K (+10% increase)
- **Sales Cycle**: 45 days (-5 days reduction)

## Recommendations
1. **Increase investment** in North American market given strong performance
2. **Optimize CAC** further through improved targeting
3. **Focus on Enterprise segment** for higher margins
4. **Implement pricing optimization** for Mid-Market segment

## Risk Assessment
- Currency fluctuation impact on international revenue
- Increasing competition in SMB segment
- Dependency on top 10 customers (35% of revenue)

---
*Analysis completed using BLUE SHERPA Cognitive Engine v2.0*`,

	"Marketing": `# Marketing Campaign Performance Analysis

## Campaign Overview
Multi-channel marketing analysis reveals strong digital performance with opportunities for traditional channel optimization.

## Performance Metrics

### Digital Marketing
- **Overall ROI**: 312% (+45% vs target)
- **Total Reach**: 2.4M unique users
- **Engagement Rate**: 8.2% (industry avg: 5.1%)
- **Conversion Rate**: 3.8%

### Channel Performance
| Channel | Spend | Revenue | ROI | Conversions |
|---------|-------|---------|-----|-------------|
| Google Ads | $250K | $1.1M | 440% | 2,840 |
| Social Media | $180K | $650K | 361% | 1,920 |
| Email | $45K | $380K | 844% | 1,450 |
| Content | $120K | $480K | 400% | 890 |

### Audience Insights
- **Top Performing Segments**:
  - Tech Professionals (CTR: 12.4%)
  - Decision Makers (Conv: 6.2%)
  - Early Adopters (LTV: $3,200)

### Campaign Effectiveness
- **Brand Awareness**: +34% lift
- **Consideration**: +28% increase
- **Purchase Intent**: +41% improvement

## Recommendations
1. **Scale email marketing** given exceptional ROI
2. **Refine social targeting** to tech professionals
3. **Test new creative formats** for display ads
4. **Implement attribution modeling** for better insights

---
*Powered by BLUE SHERPA Analytics Engine*`,

	"Sales": `# Sales Territory Performance Analysis

## Territory Overview
Comprehensive analysis of sales performance across all territories with focus on pipeline health and rep productivity.

## Territory Performance

### Regional Results
| Territory | Revenue | Target | Achievement | Pipeline |
|-----------|---------|--------|-------------|----------|
| Northeast | $3.2M | $2.8M | 114% | $8.5M |
| Southwest | $2.8M | $2.5M | 112% | $7.2M |
| Central | $2.4M | $2.6M | 92% | $6.1M |
| Pacific | $2.1M | $2.0M | 105% | $5.8M |

### Sales Rep Performance
- **Top Performers**: 8 reps exceeding 120% of quota
- **Average Quota Attainment**: 106%
- **New Rep Ramp Time**: 3.2 months (improved from 4.5)

### Pipeline Analysis
- **Total Pipeline Value**: $27.6M
- **Pipeline Coverage**: 3.2x (healthy)
- **Win Rate**: 28% (+3% QoQ)
- **Average Deal Size**: $95K

### Activity Metrics
- **Calls per Rep**: 48/day (+15%)
- **Meetings Booked**: 12/week
- **Proposals Sent**: 8/week
- **Close Rate**: 24%

## Key Insights
1. Northeast territory exceeding all metrics
2. Central territory needs additional support
3. Strong pipeline coverage indicates Q1 success
4. Win rates improving across all segments

## Recommendations
1. **Replicate Northeast** best practices
2. **Provide coaching** for Central territory
3. **Invest in sales enablement** tools
4. **Implement territory rebalancing** for Q2

---
*Analysis by BLUE SHERPA Sales Intelligence*`,

	"Customer Service": `# Customer Service Quality Analysis

## Service Performance Overview
Comprehensive analysis of customer service metrics revealing opportunities for response time optimization and satisfaction improvement.

## Key Metrics

### Response Performance
- **Average Response Time**: 2.4 hours (Target: 3 hours) ✅
- **First Contact Resolution**: 72% (+8% improvement)
- **Escalation Rate**: 12% (-3% reduction)
- **SLA Compliance**: 94%

### Channel Analysis
| Channel | Volume | Avg Response | CSAT | Resolution Rate |
|---------|--------|--------------|------|----------------|
| Phone | 8,420 | 3.2 min | 88% | 78% |
| Email | 12,350 | 4.1 hours | 82% | 68% |
| Chat | 15,680 | 45 seconds | 91% | 74% |
| Social | 3,240 | 1.8 hours | 85% | 65% |

### Customer Satisfaction
- **Overall CSAT**: 86% (+4% YoY)
- **NPS Score**: 52 (Excellent)
- **Customer Effort Score**: 3.2/5
- **Repeat Contact Rate**: 18%

### Agent Performance
- **Average Handle Time**: 6.8 minutes
- **Tickets per Agent**: 45/day
- **Quality Score**: 92%
- **Training Completion**: 96%

## Trending Issues
1. Password reset requests (18% of volume)
2. Billing inquiries (15%)
3. Feature requests (12%)
4. Technical support (35%)

## Recommendations
1. **Implement self-service** for password resets
2. **Enhance chat bot** capabilities
3. **Create knowledge base** for common issues
4. **Optimize email response** workflows

---
*BLUE SHERPA Service Analytics Platform*`,
}

var completionReports = map[string]string{
	"Finance": `# Financial Performance Analysis Report

## Executive Summary
The analysis reveals significant growth trends across key financial metrics with notable improvements in revenue generation and cost optimization.

## Key Findings

### Revenue Performance
- **Total Revenue**: $12.4M (+18% YoY)
- **Quarterly Growth**: 22% increase from Q3 to Q4
- **Regional Distribution**:
  - North America: $6.2M (50%)
  - Europe: $3.7M (30%)
  - Asia-Pacific: $2.5M (20%)

### Cost Analysis
- **Customer Acquisition Cost (CAC)**: $450 (-15% from previous quarter)
- **Operating Expenses**: $8.1M (65% of revenue)
- **EBITDA Margin**: 35% (+5 percentage points YoY)

### Product Category Performance
| Category | Revenue | Growth | Market Share |
|----------|---------|--------|-------------|
| Enterprise | $5.8M | +25% | 47% |
| Mid-Market | $4.1M | +15% | 33% |
| SMB | $2.5M | +12% | 20% |

### Conversion Metrics
- **Lead-to-Customer Rate**: 24% (+6% improvement)
- **Average Deal Size**: $125K (+10% increase)
- **Sales Cycle**: 45 days (-5 days reduction)

## Recommendations
1. **Increase investment** in North American market given strong performance
2. **Optimize CAC** further through improved targeting
3. **Focus on Enterprise segment** for higher margins
4. **Implement pricing optimization** for Mid-Market segment

## Risk Assessment
- Currency fluctuation impact on international revenue
- Increasing competition in SMB segment
- Dependency on top 10 customers (35% of revenue)

*Generated by BLUE SHERPA Analytics Engine*`,

	"Marketing": `# Marketing Performance Analysis Report

## Executive Summary
Comprehensive analysis of marketing effectiveness reveals strong digital performance with opportunities for channel optimization.

## Key Metrics

### Campaign Performance
- **Total Campaigns**: 45 active campaigns
- **Average CTR**: 3.2% (+0.8% improvement)
- **Conversion Rate**: 12.5% (+2.1% YoY)
- **Cost Per Lead**: $35 (-12% optimization)

### Channel Analysis
- **Digital Channels**: 68% of total leads
- **Organic Search**: 34% of conversions
- **Paid Social**: 22% of conversions
- **Email Marketing**: 18% ROI

### Audience Insights
- **Primary Demographics**: 25-45 age group (62%)
- **Geographic Focus**: Urban markets (78%)
- **Engagement Rate**: 15.3% across channels

## Strategic Recommendations
1. **Expand organic search** investment
2. **Optimize social media** targeting
3. **Enhance email** personalization
4. **Develop mobile-first** strategies

*Generated by BLUE SHERPA Analytics Engine*`,

	"Operations": `# Operational Efficiency Analysis Report

## Executive Summary
Analysis reveals strong operational performance with identified optimization opportunities in process efficiency and resource allocation.

## Performance Metrics

### Efficiency Indicators
- **Overall Equipment Effectiveness**: 84% (+6% improvement)
- **Process Cycle Time**: 2.3 hours (-15% reduction)
- **Quality Rate**: 98.7% (+1.2% improvement)
- **Resource Utilization**: 89% (+4% optimization)

### Cost Analysis
- **Operational Costs**: $5.2M (-8% YoY)
- **Productivity Index**: 125 (+12 points)
- **Waste Reduction**: 23% decrease

### Process Optimization
- **Automation Level**: 67% of processes
- **Digital Transformation**: 78% completion
- **Staff Efficiency**: +19% productivity gain

## Strategic Initiatives
1. **Implement advanced automation** for remaining manual processes
2. **Optimize supply chain** logistics
3. **Enhance workforce** training programs
4. **Deploy predictive maintenance** systems

*Generated by BLUE SHERPA Analytics Engine*`,
}
