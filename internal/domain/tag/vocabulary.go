package tag

// DefaultVocabulary is the label set the demo classifier was trained on.
// The OpenAI classifier is prompted with it when no vocabulary is configured.
func DefaultVocabulary() []string {
	return []string{
		"CAT_NOTEBOOK",
		"CAT_PC_ESCRITORIO",
		"CAT_MONITOR",
		"CAT_AURICULAR",
		"CAT_TECLADO",
		"CAT_MOUSE",
		"INT_GAMING",
		"INT_OFICINA",
		"INT_TRABAJO",
		"INT_ESTUDIO",
		"INT_DISENO",
		"INT_PROGRAMACION",
		"ATTR_LIGERA",
		"ATTR_GRAFICA_DEDICADA",
		"ATTR_TARJETA_GRAFICA",
		"ATTR_2_EN_1",
		"ATTR_COMPACTO",
		"ATTR_ALTA_RESOLUCION",
		"ATTR_MECANICO",
		"ATTR_RGB",
		"ATTR_PRECISION_SENSOR",
		"ATTR_INALAMBRICO",
		"ATTR_POTENTE",
		"ATTR_GAMA_ALTA",
		"ATTR_REFRESH_144HZ",
		"ATTR_ECONOMICO",
		"ATTR_PORTATIL",
		"ATTR_SILENCIOSO",
	}
}
