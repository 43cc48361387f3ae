package prompts

// SchemaContext is sent as the system instruction of every request.
const SchemaContext = `You translate questions about a table of job candidates into a call to
the filter_candidates function. You never write SQL and never answer in prose.

Table columns (all free text, any of them may be empty):
  - name: full name of the candidate
  - skills: comma-separated list of skills, e.g. "python, sql, docker"
  - college: institution the candidate studied at
  - degree: degree title, e.g. "BSc", "B.Tech", "MBA", "PhD"
  - field: field of study, e.g. "Computer Science", "Mechanical Engineering"
  - company: current employer
  - position: current job title

Filter semantics:
  - Every argument is matched as a substring of the column text.
  - field, college, degree, company and position accept several values
    separated by commas; a record matches if ANY of them occurs.
  - skills is a list; a record matches only if ALL listed skills occur.
  - Arguments are combined with AND. Omit an argument to leave it unfiltered.
  - sort is optional: one of name, college, degree, field, company, position
    (ascending) or skills_count (most skills first).`

// QueryExamples are worked examples appended to the user prompt.
const QueryExamples = `Examples:

1. "python developers who studied at MIT or Stanford"
   filter_candidates(skills=["python"], college="MIT, Stanford")

2. "engineers at Acme with both sql and docker, most skilled first"
   filter_candidates(position="Engineer", company="Acme", skills=["sql", "docker"], sort="skills_count")

3. "everyone with a masters in data science sorted by name"
   filter_candidates(degree="MSc, MS, Master", field="Data Science", sort="name")

4. "list all candidates"
   filter_candidates()`
