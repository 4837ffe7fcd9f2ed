// Package schema carries the database schema summary handed to the model
// when generating SQL. Versioning it keeps generated queries and logged
// prompts attributable to the schema text they were produced against.
// The enumerated values below are the exact stored strings; a prompt that
// drifts from them yields queries that silently match zero rows.
package schema

// Context is one immutable version of the schema summary.
type Context struct {
	Version string
	Text    string
}

const currentVersion = "2025-08"

const schemaText = `DATABASE SCHEMA (PostgreSQL):

projects (legal cases):
  id UUID PRIMARY KEY
  case_number TEXT UNIQUE  -- formatted like CV-2024-00123
  title TEXT
  case_type TEXT  -- one of: 'Personal Injury', 'Corporate', 'Family Law', 'Employment', 'Real Estate'
  status TEXT  -- one of: 'Open', 'Closed', 'Pending', 'On Hold'
  phase TEXT  -- one of: 'Discovery', 'Trial', 'Settlement', 'Pre-Trial', 'Appeal'
  priority TEXT  -- one of: 'High', 'Medium', 'Low'
  jurisdiction TEXT
  court_name TEXT
  filing_date DATE
  estimated_value NUMERIC
  description TEXT
  custom_fields JSONB

contacts:
  id UUID PRIMARY KEY
  first_name TEXT
  last_name TEXT
  email TEXT
  phone TEXT
  contact_type TEXT  -- one of: 'Attorney', 'Client', 'Opposing Counsel', 'Witness', 'Expert'
  organization TEXT
  title TEXT
  bar_number TEXT
  specialty TEXT

project_contacts (join table):
  project_id UUID REFERENCES projects(id)
  contact_id UUID REFERENCES contacts(id)
  role TEXT
  is_primary BOOLEAN

documents:
  id UUID PRIMARY KEY
  project_id UUID REFERENCES projects(id)
  title TEXT
  document_type TEXT  -- one of: 'Pleading', 'Discovery', 'Correspondence', 'Evidence', 'Contract', 'Motion'
  content TEXT  -- full extracted text
  status TEXT
  file_size_kb INTEGER
  date_filed DATE
  date_received DATE
  tags TEXT[]

time_entries:
  id UUID PRIMARY KEY
  project_id UUID REFERENCES projects(id)
  attorney UUID
  date DATE
  hours NUMERIC
  activity_type TEXT
  description TEXT
  hourly_rate NUMERIC
  total_amount NUMERIC
  is_billable BOOLEAN

expenses:
  id UUID PRIMARY KEY
  project_id UUID REFERENCES projects(id)
  date DATE
  expense_type TEXT
  description TEXT
  amount NUMERIC
  vendor TEXT
  is_billable BOOLEAN

invoices:
  id UUID PRIMARY KEY
  project_id UUID REFERENCES projects(id)
  invoice_number TEXT
  status TEXT  -- one of: 'Draft', 'Sent', 'Paid', 'Overdue', 'Cancelled'
  issue_date DATE
  due_date DATE
  paid_date DATE
  amount NUMERIC

QUERY GUIDELINES:
- Only SELECT statements are allowed.
- Enumerated values are stored Title Case exactly as listed: 'Open', never 'open'.
- Always include projects.case_number and projects.title when returning case rows so results are identifiable.
- Join through project_contacts when relating people to cases.
- Use ILIKE for name and title matching.
- Limit results to 100 rows unless the question asks for an aggregate.
- Dates compare against CURRENT_DATE; "last 6 months" means filing_date >= CURRENT_DATE - INTERVAL '6 months'.`

// Current returns the schema context compiled into this build.
func Current() Context {
	return Context{Version: currentVersion, Text: schemaText}
}
