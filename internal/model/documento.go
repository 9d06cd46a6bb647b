package model

import "strings"

// SomenteDigitos strips punctuation from CPF/CNPJ input ("123.456.789-09").
func SomenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func todosIguais(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

func digitoVerificador(d string, pesos []int) byte {
	soma := 0
	for i, p := range pesos {
		soma += int(d[i]-'0') * p
	}
	resto := soma % 11
	if resto < 2 {
		return '0'
	}
	return byte('0' + 11 - resto)
}

// CpfValido checks length and both check digits of a CPF.
func CpfValido(cpf string) bool {
	d := SomenteDigitos(cpf)
	if len(d) != 11 || todosIguais(d) {
		return false
	}
	return digitoVerificador(d, []int{10, 9, 8, 7, 6, 5, 4, 3, 2}) == d[9] &&
		digitoVerificador(d, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}) == d[10]
}

// CnpjValido checks length and both check digits of a CNPJ.
func CnpjValido(cnpj string) bool {
	d := SomenteDigitos(cnpj)
	if len(d) != 14 || todosIguais(d) {
		return false
	}
	return digitoVerificador(d, []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) == d[12] &&
		digitoVerificador(d, []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) == d[13]
}
