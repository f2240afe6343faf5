package usecase

// Diccionarios de keywords para el scoring religioso. El match es por
// subcadena sobre texto en minúsculas, igual que en el pipeline de
// transformación de los portales.

// Una keyword explícita confirma el origen religioso por sí sola
var KeywordsExplicit = []string{
	"iglesia", "convento", "monasterio", "capilla",
	"ermita", "basílica", "catedral", "templo",
	"parroquia", "santuario", "claustro", "abadía",
	"colegiata", "priorato", "cartuja",
}

// Vocabulario religioso de contexto (peso medio)
var KeywordsMedium = []string{
	"religioso", "eclesiástico", "sacro", "culto",
	"episcopal", "diocesano", "parroquial", "conventual",
	"monástico", "clerical",
}

// Elementos arquitectónicos típicos (peso bajo)
var KeywordsLow = []string{
	"altar", "campanario", "torre", "sacristía",
	"presbiterio", "nave", "crucero", "retablo",
	"baptisterio", "coro", "cripta", "ábside",
}

// Señales de inmueble residencial convencional (restan)
var KeywordsNegative = []string{
	"piso", "apartamento", "chalet", "adosado",
	"ático", "dúplex", "estudio", "obra nueva",
	"a estrenar", "moderno",
}
