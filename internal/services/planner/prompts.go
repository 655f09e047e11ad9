package planner

// Planning prompt templates. Placeholders are filled positionally with
// fmt.Sprintf at the call sites in service.go.

// reportStructurePrompt generates the section outline for a report.
// Placeholders: company name, current date, company name.
const reportStructurePrompt = `
As an expert investment analyst, your task is to design a comprehensive structure for a deep-dive financial report on %s.
The final report should be substantial (6-10 pages) and logically build a compelling investment case from start to finish. The entire report serves as the trading thesis.
Today's date is %s.

The structure should cover the following analytical pillars, guiding the reader through the analysis to a final conclusion:
- **Company Overview**: MUST be the first analytical section - what the company does, its business model, and core operations.
- **Business & Market Analysis**: The company's market, competitive positioning, and its competitive moat.
- **Financial Health & Performance**: A deep dive into financial statements and key performance indicators.
- **Growth Catalysts & Future Outlook**: Analysis of potential growth drivers and forward-looking opportunities.
- **Valuation**: An assessment of the company's current valuation relative to its peers and intrinsic value.
- **Risk Assessment**: A clear-eyed view of potential risks and headwinds.
- **Conclusion**: A synthesis of the entire analysis into a final investment outlook and recommendation.

**IMPORTANT EXCLUSIONS:**
- **Do NOT include "Executive Summary"** - this will be generated separately and placed before the main report
- **Do NOT include "Investment Thesis"** - the overall report structure should build toward this conclusion

NOTE:
- The generated structure should be a list of section titles that reflect this narrative structure.
- The generated structure SHOULD be a list of 8-10 section titles (excluding Executive Summary).
Generate a detailed list of section titles that reflect this narrative structure. The output must be a valid JSON array of strings.

Example for 'NVIDIA Corp.':
[
    "1. Company Overview and Business Model",
    "2. Industry and Competitive Landscape Analysis",
    "3. Market Position and Competitive Advantages",
    "4. Deep Dive into Financial Performance",
    "5. Revenue Streams and Business Segments Analysis",
    "6. Key Growth Catalysts and Market Opportunities",
    "7. Valuation Assessment and Peer Comparison",
    "8. Risk Factors and Mitigation Strategies",
    "9. Management Quality and Corporate Governance",
    "10. Conclusion and Investment Outlook"
]

Company: %s
Report Structure:
`

// webQueriesPrompt generates web search queries covering the outline.
// Placeholders: company name, outline, current date, company name, outline.
const webQueriesPrompt = `
You are an AI research assistant generating web search queries for a financial report on %s.
The report will cover these sections: %s.
Today's date is %s.

Generate 5-7 distinct, keyword-focused search queries to find the most recent and relevant information. Focus on news, management commentary, and expert analysis from the last quarter.
The output must be a valid JSON array of strings.

Example:
Company: NVIDIA Corp.
Queries:
[
    "NVIDIA recent earnings call transcript summary",
    "analyst price targets for NVDA Q3 2024",
    "NVIDIA data center growth trends and forecasts",
    "Jensen Huang recent comments on AI chip competition"
]

Company: %s
Report Sections: %s
Search Queries:
`

// financialQueriesPrompt generates self-contained questions for the
// financial data agent.
// Placeholders: company name, ticker, outline, current date, company name,
// ticker, outline.
const financialQueriesPrompt = `
You are an AI assistant generating API queries for financial data for a report on %s (Ticker: %s).
The report sections are: %s.
Today's date is %s.

You have access to the following functions:
- get_stock_price(ticker): Gets the latest stock price.
- get_company_info(ticker): Gets the business summary.
- get_income_statement(ticker): Gets the latest income statement.
- get_balance_sheet(ticker): Gets the latest balance sheet.
- get_cash_flow(ticker): Gets the latest cash flow statement.
- get_key_stats(ticker): Gets key valuation and performance statistics.
- get_stock_news(ticker): Gets recent news from financial sources.

Generate a list of 3-6 queries for the financial agent. The queries must be self-contained questions that include the ticker symbol.
The output must be a valid JSON array of objects, each with a "query" and a "ticker" field.

Example:
Company: NVIDIA Corp.
Ticker: NVDA
Queries:
[
    {"query": "get key stats for NVDA", "ticker": "NVDA"},
    {"query": "get the latest annual income statement for NVDA", "ticker": "NVDA"},
    {"query": "get the latest annual balance sheet for NVDA", "ticker": "NVDA"},
    {"query": "get recent financial news for NVDA", "ticker": "NVDA"}
]

Company: %s
Ticker: %s
Report Sections: %s
Financial Queries:
`
