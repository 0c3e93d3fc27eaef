package bot

// User-facing copy, kept in Portuguese for the school's audience.

const msgWelcome = "Olá! Sou o guardião do grupo exclusivo de Telegram da Escola de Impermeabilização.\n" +
	"Se tiver quaisquer problemas comigo, entre em contato conosco por um de nossos canais, " +
	"enviando o email da assinatura e o comprovante de inscrição.\n" +
	"Digite o email usado na compra para liberar ou validar seu acesso."

const msgAlreadyBound = "✅ Você já possui acesso ativo com este usuário. Verifique se já está no grupo."

const msgDenied = "❌ Nenhuma assinatura ativa encontrada para este e-mail. " +
	"Verifique se o endereço está correto e, se sim, entre em contato conosco " +
	"enviando seu comprovante de assinatura e endereço de email."

const msgTechnicalError = "Erro técnico ao gerar acesso. Tente novamente em alguns minutos."

func msgGranted(inviteLink string) string {
	return "✅ Acesso Confirmado!\n\n" +
		"Aqui está seu link exclusivo e de uso único. Não compartilhe:\n" + inviteLink + "\n\n" +
		"⚠️ Atenção: se você gerar um novo link, este anterior deixará de funcionar imediatamente.\n" +
		"⚠️ Importante: este login desconectou qualquer outro dispositivo que estivesse usando este e-mail no grupo."
}
