package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/records"

	_ "modernc.org/sqlite"
)

const registrySettingKey = "categories"

// SQLiteRepository implements records.Store on a local SQLite file, the
// local-first equivalent of the browser database the data model comes from.
type SQLiteRepository struct {
	db *sql.DB
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const dateLayout = "2006-01-02"

func encodeDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func decodeDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, category, description, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		encodeDate(e.Date), e.Category, e.Description, e.Amount.Cents, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense insert id: %w", err)
	}
	slog.DebugContext(ctx, "Expense saved", "id", id, "amount_cents", e.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, category, description, amount_cents, created_at
		 FROM expenses WHERE id = ?`, id)
	return scanExpense(row)
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, description, amount_cents, created_at
		 FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "expenses", id)
}

func (r *SQLiteRepository) ClearExpenses(ctx context.Context) error {
	return r.clearTable(ctx, "expenses")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e     core.Expense
		date  string
		cents int64
	)
	err := row.Scan(&e.ID, &date, &e.Category, &e.Description, &cents, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, records.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Date = decodeDate(date)
	e.Amount = core.Money{Cents: cents}
	return e, nil
}

func (r *SQLiteRepository) AddIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO income (date, type, description, amount_cents, pay_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		encodeDate(in.Date), string(in.Type), in.Description, in.Amount.Cents, in.PayMonth, in.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, type, description, amount_cents, pay_month, created_at
		 FROM income WHERE id = ?`, id)
	return scanIncome(row)
}

func (r *SQLiteRepository) ListIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, type, description, amount_cents, pay_month, created_at
		 FROM income ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "income", id)
}

func (r *SQLiteRepository) ClearIncome(ctx context.Context) error {
	return r.clearTable(ctx, "income")
}

func scanIncome(row rowScanner) (core.Income, error) {
	var (
		in    core.Income
		date  string
		typ   string
		cents int64
	)
	err := row.Scan(&in.ID, &date, &typ, &in.Description, &cents, &in.PayMonth, &in.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, records.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	in.Date = decodeDate(date)
	in.Type = core.IncomeType(typ)
	in.Amount = core.Money{Cents: cents}
	return in, nil
}

func (r *SQLiteRepository) AddLoan(ctx context.Context, l core.Loan) (int64, error) {
	schedule, history, err := encodeLoanBlobs(l)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO loans (direction, person, principal_cents, due_date, payment_type,
		                    installments, status, schedule, history, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(l.Direction), l.Person, l.Principal.Cents, encodeDate(l.DueDate),
		string(l.Payment), l.Installments, string(l.Status), schedule, history, l.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert loan: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) PutLoan(ctx context.Context, l core.Loan) error {
	schedule, history, err := encodeLoanBlobs(l)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET direction = ?, person = ?, principal_cents = ?, due_date = ?,
		                  payment_type = ?, installments = ?, status = ?, schedule = ?, history = ?
		 WHERE id = ?`,
		string(l.Direction), l.Person, l.Principal.Cents, encodeDate(l.DueDate),
		string(l.Payment), l.Installments, string(l.Status), schedule, history, l.ID)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) GetLoan(ctx context.Context, id int64) (core.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, direction, person, principal_cents, due_date, payment_type,
		        installments, status, schedule, history, created_at
		 FROM loans WHERE id = ?`, id)
	return scanLoan(row)
}

func (r *SQLiteRepository) ListLoans(ctx context.Context) ([]core.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, direction, person, principal_cents, due_date, payment_type,
		        installments, status, schedule, history, created_at
		 FROM loans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var out []core.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteLoan(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "loans", id)
}

func (r *SQLiteRepository) ClearLoans(ctx context.Context) error {
	return r.clearTable(ctx, "loans")
}

func encodeLoanBlobs(l core.Loan) (schedule, history []byte, err error) {
	schedule, err = json.Marshal(l.Schedule)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal loan schedule: %w", err)
	}
	history, err = json.Marshal(l.History)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal loan history: %w", err)
	}
	return schedule, history, nil
}

func scanLoan(row rowScanner) (core.Loan, error) {
	var (
		l                  core.Loan
		direction, payment string
		status, due        string
		principal          int64
		schedule, history  []byte
	)
	err := row.Scan(&l.ID, &direction, &l.Person, &principal, &due, &payment,
		&l.Installments, &status, &schedule, &history, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Loan{}, records.ErrNotFound
	}
	if err != nil {
		return core.Loan{}, fmt.Errorf("scan loan: %w", err)
	}
	l.Direction = core.LoanDirection(direction)
	l.Payment = core.PaymentType(payment)
	l.Status = core.ObligationStatus(status)
	l.Principal = core.Money{Cents: principal}
	l.DueDate = decodeDate(due)
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &l.Schedule); err != nil {
			return core.Loan{}, fmt.Errorf("unmarshal loan schedule: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &l.History); err != nil {
			return core.Loan{}, fmt.Errorf("unmarshal loan history: %w", err)
		}
	}
	return l, nil
}

func (r *SQLiteRepository) AddCredit(ctx context.Context, c core.Credit) (int64, error) {
	schedule, err := json.Marshal(c.Schedule)
	if err != nil {
		return 0, fmt.Errorf("marshal credit schedule: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO credits (description, principal_cents, installments, monthly_cents,
		                      paid_cents, interest_rate, first_payment, final_due, schedule, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Description, c.Principal.Cents, c.Installments, c.MonthlyPayment.Cents,
		c.Paid.Cents, c.InterestRate, encodeDate(c.FirstPayment), encodeDate(c.FinalDue),
		schedule, c.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert credit: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) PutCredit(ctx context.Context, c core.Credit) error {
	schedule, err := json.Marshal(c.Schedule)
	if err != nil {
		return fmt.Errorf("marshal credit schedule: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE credits SET description = ?, principal_cents = ?, installments = ?,
		                    monthly_cents = ?, paid_cents = ?, interest_rate = ?,
		                    first_payment = ?, final_due = ?, schedule = ?
		 WHERE id = ?`,
		c.Description, c.Principal.Cents, c.Installments, c.MonthlyPayment.Cents,
		c.Paid.Cents, c.InterestRate, encodeDate(c.FirstPayment), encodeDate(c.FinalDue),
		schedule, c.ID)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) GetCredit(ctx context.Context, id int64) (core.Credit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, principal_cents, installments, monthly_cents,
		        paid_cents, interest_rate, first_payment, final_due, schedule, created_at
		 FROM credits WHERE id = ?`, id)
	return scanCredit(row)
}

func (r *SQLiteRepository) ListCredits(ctx context.Context) ([]core.Credit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, principal_cents, installments, monthly_cents,
		        paid_cents, interest_rate, first_payment, final_due, schedule, created_at
		 FROM credits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()

	var out []core.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteCredit(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "credits", id)
}

func (r *SQLiteRepository) ClearCredits(ctx context.Context) error {
	return r.clearTable(ctx, "credits")
}

func scanCredit(row rowScanner) (core.Credit, error) {
	var (
		c                  core.Credit
		principal, monthly int64
		paid               int64
		first, final       string
		schedule           []byte
	)
	err := row.Scan(&c.ID, &c.Description, &principal, &c.Installments, &monthly,
		&paid, &c.InterestRate, &first, &final, &schedule, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Credit{}, records.ErrNotFound
	}
	if err != nil {
		return core.Credit{}, fmt.Errorf("scan credit: %w", err)
	}
	c.Principal = core.Money{Cents: principal}
	c.MonthlyPayment = core.Money{Cents: monthly}
	c.Paid = core.Money{Cents: paid}
	c.FirstPayment = decodeDate(first)
	c.FinalDue = decodeDate(final)
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &c.Schedule); err != nil {
			return core.Credit{}, fmt.Errorf("unmarshal credit schedule: %w", err)
		}
	}
	return c, nil
}

func (r *SQLiteRepository) AddBudget(ctx context.Context, p core.BudgetPlan) (int64, error) {
	allocations, err := json.Marshal(p.Allocations)
	if err != nil {
		return 0, fmt.Errorf("marshal budget allocations: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (month, allocations, created_at) VALUES (?, ?, ?)`,
		p.Month, allocations, p.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) PutBudget(ctx context.Context, p core.BudgetPlan) error {
	allocations, err := json.Marshal(p.Allocations)
	if err != nil {
		return fmt.Errorf("marshal budget allocations: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET month = ?, allocations = ? WHERE id = ?`,
		p.Month, allocations, p.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) GetBudgetByMonth(ctx context.Context, month string) (core.BudgetPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, month, allocations, created_at FROM budgets WHERE month = ?`, month)
	return scanBudget(row)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.BudgetPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, month, allocations, created_at FROM budgets ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetPlan
	for rows.Next() {
		p, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "budgets", id)
}

func (r *SQLiteRepository) ClearBudgets(ctx context.Context) error {
	return r.clearTable(ctx, "budgets")
}

func scanBudget(row rowScanner) (core.BudgetPlan, error) {
	var (
		p           core.BudgetPlan
		allocations []byte
	)
	err := row.Scan(&p.ID, &p.Month, &allocations, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetPlan{}, records.ErrNotFound
	}
	if err != nil {
		return core.BudgetPlan{}, fmt.Errorf("scan budget: %w", err)
	}
	if len(allocations) > 0 {
		if err := json.Unmarshal(allocations, &p.Allocations); err != nil {
			return core.BudgetPlan{}, fmt.Errorf("unmarshal budget allocations: %w", err)
		}
	}
	return p, nil
}

func (r *SQLiteRepository) LoadRegistry(ctx context.Context) (*core.Registry, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, registrySettingKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load category registry: %w", err)
	}
	reg := core.NewRegistry()
	if err := json.Unmarshal(value, reg); err != nil {
		return nil, fmt.Errorf("unmarshal category registry: %w", err)
	}
	return reg, nil
}

func (r *SQLiteRepository) SaveRegistry(ctx context.Context, reg *core.Registry) error {
	value, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal category registry: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		registrySettingKey, value)
	if err != nil {
		return fmt.Errorf("save category registry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) clearTable(ctx context.Context, table string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}
