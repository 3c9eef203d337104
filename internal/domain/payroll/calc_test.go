package payroll

import (
	"testing"
	"time"
)

func TestComputePayroll(t *testing.T) {
	inputs := []InputLine{
		{Type: "earning", Amount: 200},
		{Type: "earning", Amount: 50},
		{Type: "deduction", Amount: 100},
	}

	gross, deductions, net := ComputePayroll(1000, inputs)
	if gross != 1250 {
		t.Fatalf("expected gross 1250, got %v", gross)
	}
	if deductions != 100 {
		t.Fatalf("expected deductions 100, got %v", deductions)
	}
	if net != 1150 {
		t.Fatalf("expected net 1150, got %v", net)
	}
}

func TestComputePayrollIgnoresUnknownTypes(t *testing.T) {
	inputs := []InputLine{
		{Type: "bonus", Amount: 100},
		{Type: "deduction", Amount: 25},
	}
	gross, deductions, net := ComputePayroll(500, inputs)
	if gross != 500 {
		t.Fatalf("expected gross 500, got %v", gross)
	}
	if deductions != 25 {
		t.Fatalf("expected deductions 25, got %v", deductions)
	}
	if net != 475 {
		t.Fatalf("expected net 475, got %v", net)
	}
}

func TestComputeNet(t *testing.T) {
	if got := ComputeNet(5000, 200, 800); got != 4400 {
		t.Fatalf("expected net 4400, got %v", got)
	}
	if got := ComputeNet(6200, 0, 1100); got != 5100 {
		t.Fatalf("expected net 5100, got %v", got)
	}
}

func TestMonthLabel(t *testing.T) {
	got := MonthLabel(time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC))
	if got != "October 2023" {
		t.Fatalf("expected October 2023, got %q", got)
	}
}
