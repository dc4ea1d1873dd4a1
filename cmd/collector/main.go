package main

import "github.com/shopspring/decimal"

func init() {
	// дашборд ждёт числа, а не строки
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	Execute()
}
