package checkout

// Payer-facing texts. The checkout is used by francophone payers, so the
// wording matches what the hosted widget has always shown.
const (
	CredentialErrorMessage = "Vos identifiants d'intégration sont incorrects. Merci d'utiliser la clé adéquate à votre environnement (live ou sandbox) actuel"

	msgPaymentSuccess      = "Votre paiement a été traité avec succès."
	msgGenericFailure      = "Une erreur est survenue lors du traitement du paiement"
	msgUSSDExpired         = "Votre session USSD a expiré ou la transaction a été annulé. Veuillez réessayer !"
	msgInsufficientBalance = "Votre solde est insuffisant pour effectuer cette opération."
	msgPayerNotFound       = "Veuillez bien vérifier le numéro de téléphone et le réseau selectionné"
	msgPaymentFailed       = "Le paiement a échoué ou a été annulé."
	msgPollTimeout         = "La vérification du paiement a expiré. Veuillez réessayer."
	msgPollError           = "Une erreur est survenue lors de la vérification du paiement."
	msgCorisFailure        = "Une erreur est survenue lors du traitement du paiement CORIS"
	msgWaveFailure         = "Une erreur est survenue lors du traitement du paiement WAVE"
	msgOTPFailure          = "Une erreur est survenue lors de la validation du code OTP"
	msgCancelled           = "Paiement annulé par l'utilisateur"
	msgSessionClosed       = "La session de paiement a été fermée."
	msgCardInitiated       = "Votre paiement a été initié avec succès. Vous allez être redirigé vers la page de paiement."
	msgCardFailure         = "Une erreur est survenue lors de l'initialisation du paiement par carte"

	msgPhoneRequired       = "Veuillez entrer votre numéro de téléphone"
	msgEmailRequired       = "Veuillez entrer votre adresse email"
	msgNameRequired        = "Veuillez entrer votre nom"
	msgFirstNameRequired   = "Veuillez entrer votre prénom"
	msgOrangeOTPRequired   = "Veuillez entrer le code OTP obtenu en tapant #144#391#"
	msgWalletUnsupported   = "Fournisseur de wallet non pris en charge"
	msgCountryUnsupported  = "Pays non pris en charge"
	msgNetworkUnsupported  = "Réseau non pris en charge pour ce pays"
	msgMethodNotAllowed    = "Ce moyen de paiement n'est pas disponible pour ce marchand"
	msgCardTypeUnsupported = "Type de carte non pris en charge"
)

const defaultPaymentDescription = "Paiement FeexPay"
