package mcpserver

// ScoreFormulaURI is the resource describing how the life score is computed.
const ScoreFormulaURI = "lifemirror://score-formula"

// ScoreFormula explains the life score to LLM consumers so they can reason
// about which actions move it.
const ScoreFormula = `# LifeMirror Life Score

The life score is recomputed from the dashboard on every request. It is never stored.

## Sub-scores (integers 0-10)

| Sub-score | Rule |
|---|---|
| task | round(completed / total × 10); 5 when there are no tasks |
| finance | 10 − 2 × unpaid bills, never below 0 |
| fitness | 8 when any fitness log is dated today, else 4 |
| mood | round(today's mood / 4 × 10); 5 when no mood is logged today |
| digital | one point per vault item, at most 10 |

## Composite (integer 0-100)

    round(task×2.5 + finance×2.0 + fitness×2.0 + mood×2.0 + digital×1.5)

Weights are 25/20/20/20/15 percent.

## Notes

- "Today" is the server's calendar date.
- The synthesized placeholder mood (id "placeholder-today") counts as no mood logged.
- Magnitudes do not matter for fitness: one log of any type today is enough.
`
